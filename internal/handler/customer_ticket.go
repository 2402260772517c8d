package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yeqown/go-qrcode"

	"github.com/mparsa/cinema-ticket-booking/internal/booking"
	"github.com/mparsa/cinema-ticket-booking/internal/repository"
)

// CustomerHandler groups the booking engine and ticket read access
// used by customer-facing endpoints.  JWT authentication and role
// validation are performed by middleware; methods return 401 only when
// the user ID cannot be extracted from the context.
type CustomerHandler struct {
	Engine     *booking.Engine        // atomic booking and cancellation
	TicketRepo *repository.TicketRepo // ticket read side
}

// NewCustomerHandler constructs a new CustomerHandler with the
// provided dependencies.  All dependencies must be non-nil.
func NewCustomerHandler(engine *booking.Engine, ticketRepo *repository.TicketRepo) *CustomerHandler {
	if engine == nil || ticketRepo == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Engine: engine, TicketRepo: ticketRepo}
}

// BookTickets handles POST /v1/shows/:id/book.  The body carries the
// show_seat ids the customer selected from the availability map.  The
// purchase is all-or-nothing: if any selected seat was taken in the
// meantime the whole request fails with 409 and nothing is charged.
func (h *CustomerHandler) BookTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var body struct {
		ShowSeatIDs   []uint64 `json:"show_seat_ids"`
		PaymentMethod string   `json:"payment_method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.ShowSeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_seat_ids is required"})
	}
	method := strings.ToUpper(strings.TrimSpace(body.PaymentMethod))
	if method == "" {
		method = "CARD"
	}

	ticket, err := h.Engine.BookTickets(c.Request().Context(), userID, showID, body.ShowSeatIDs, method)
	switch {
	case err == nil:
	case err == booking.ErrInvalidRequest:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking request"})
	case err == repository.ErrShowNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	case err == booking.ErrSeatConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "some selected seats are already booked or invalid"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":                ticket.ID,
		"show_id":           ticket.ShowID,
		"status":            ticket.Status,
		"total_price_cents": ticket.TotalPriceCents,
		"qr_payload":        ticket.QRPayload,
		"booking_time":      ticket.BookingTime.Format(time.RFC3339),
		"seat_count":        ticket.SeatCount,
	})
}

// CancelTicket handles POST /v1/tickets/:id/cancel.  Only the owner
// may cancel, only while the ticket is PAID and only up to the policy
// cutoff before showtime.  The refund amount is returned so the client
// can show it immediately.
func (h *CustomerHandler) CancelTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&body)

	res, err := h.Engine.CancelTicket(c.Request().Context(), ticketID, userID, false, strings.TrimSpace(body.Reason), time.Now().UTC())
	if err != nil {
		return cancelError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":                  res.TicketID,
		"status":              "CANCELLED",
		"refund_amount_cents": res.RefundAmountCents,
		"refund_percentage":   res.RefundPercentage,
	})
}

// ListMyTickets handles GET /v1/my-tickets.  Cancelled and used
// tickets are included; the client filters by status.
func (h *CustomerHandler) ListMyTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets, err := h.TicketRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": tickets})
}

// GetTicket handles GET /v1/tickets/:id.  Tickets are private: asking
// for another user's ticket responds 404, not 403, so ids cannot be
// probed.
func (h *CustomerHandler) GetTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	detail, err := h.TicketRepo.GetByIDForUser(c.Request().Context(), ticketID, userID)
	if err != nil {
		if err == repository.ErrTicketNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// TicketQR handles GET /v1/tickets/:id/qr.  It renders the ticket's
// admission payload as a QR image.  The image is generated into a
// temporary file and streamed back; the payload itself is stable so
// clients may cache the result.
func (h *CustomerHandler) TicketQR(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	payload, err := h.TicketRepo.GetQRPayload(c.Request().Context(), ticketID, userID)
	if err != nil {
		if err == repository.ErrTicketNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	qrc, err := qrcode.New(payload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not generate qr code"})
	}
	path := filepath.Join(os.TempDir(), fmt.Sprintf("ticket-%d-%d.jpeg", ticketID, time.Now().UnixNano()))
	if err := qrc.Save(path); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not render qr code"})
	}
	defer os.Remove(path)
	return c.File(path)
}
