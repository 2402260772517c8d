package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mparsa/cinema-ticket-booking/internal/handler"
	"github.com/mparsa/cinema-ticket-booking/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers can
// book seats for a show, cancel their tickets and view their own
// purchase history including the ticket QR image.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.POST("/shows/:id/book", h.BookTickets)
	g.POST("/tickets/:id/cancel", h.CancelTicket)
	g.GET("/my-tickets", h.ListMyTickets)
	g.GET("/tickets/:id", h.GetTicket)
	g.GET("/tickets/:id/qr", h.TicketQR)
}
