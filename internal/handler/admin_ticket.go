package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mparsa/cinema-ticket-booking/internal/booking"
	"github.com/mparsa/cinema-ticket-booking/internal/repository"
)

// AdmitTicket handles POST /v1/admin/tickets/:id/admit.  The gate
// scanner posts the raw QR payload; on success the ticket flips from
// PAID to USED and cannot be admitted again.
func (h *AdminHandler) AdmitTicket(c echo.Context) error {
	ticketID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var body struct {
		QRPayload string `json:"qr_payload"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.QRPayload) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "qr_payload is required"})
	}
	err := h.Engine.AdmitTicket(c.Request().Context(), ticketID, strings.TrimSpace(body.QRPayload))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"id": ticketID, "status": "USED"})
	case err == booking.ErrInvalidRequest:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid qr payload"})
	case err == repository.ErrTicketNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case err == booking.ErrInvalidState:
		return c.JSON(http.StatusConflict, echo.Map{"error": "ticket already used or cancelled"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// CancelTicket handles POST /v1/admin/tickets/:id/cancel.  Admins can
// cancel any PAID ticket on a customer's behalf; the same refund
// tiers and showtime cutoffs apply.
func (h *AdminHandler) CancelTicket(c echo.Context) error {
	ticketID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&body)

	res, err := h.Engine.CancelTicket(c.Request().Context(), ticketID, 0, true, strings.TrimSpace(body.Reason), time.Now().UTC())
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

// cancelError maps cancellation failures to HTTP responses.  Shared by
// the customer and admin cancel endpoints.
func cancelError(c echo.Context, err error) error {
	switch {
	case err == repository.ErrTicketNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case err == repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ticket"})
	case err == booking.ErrInvalidState:
		return c.JSON(http.StatusConflict, echo.Map{"error": "ticket already used or cancelled"})
	case err == booking.ErrShowAlreadyStarted:
		return c.JSON(http.StatusConflict, echo.Map{"error": "show already started"})
	case err == booking.ErrCancellationWindowClosed:
		return c.JSON(http.StatusConflict, echo.Map{"error": "too close to showtime to cancel"})
	case err == booking.ErrInvalidRequest:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
