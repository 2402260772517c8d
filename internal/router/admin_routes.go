package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mparsa/cinema-ticket-booking/internal/handler"
	"github.com/mparsa/cinema-ticket-booking/internal/middleware"
)

// RegisterAdmin registers admin-scoped endpoints under /v1/admin.  All
// routes require a valid JWT and the ADMIN role.  Admins manage the
// movie catalog, theaters, seat layouts and shows, admit tickets at
// the gate and may cancel tickets on a customer's behalf.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("/movies", h.CreateMovie)
	g.POST("/theaters", h.CreateTheater)
	g.POST("/theaters/:id/seats", h.CreateSeats)
	g.GET("/theaters/:id/seats", h.ListSeats)
	g.POST("/shows", h.CreateShow)
	g.PATCH("/shows/:id/price", h.UpdateShowPrice)
	g.DELETE("/shows/:id", h.DeactivateShow)
	g.GET("/shows/:id/occupancy", h.ShowOccupancy)
	g.POST("/tickets/:id/admit", h.AdmitTicket)
	g.POST("/tickets/:id/cancel", h.CancelTicket)
}
