package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mparsa/cinema-ticket-booking/internal/model"
	"github.com/mparsa/cinema-ticket-booking/internal/repository"
)

// CreateShow handles POST /v1/admin/shows.  It inserts the show and
// materializes one show_seats row per seat of the theater inside a
// single transaction, so a show is never visible without its
// inventory.
func (h *AdminHandler) CreateShow(c echo.Context) error {
	var body struct {
		MovieID    uint64 `json:"movie_id"`
		TheaterID  uint64 `json:"theater_id"`
		StartsAt   string `json:"starts_at"` // RFC3339
		PriceCents int64  `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieID == 0 || body.TheaterID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and theater_id are required"})
	}
	if body.PriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
	}
	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(body.StartsAt))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at format"})
	}
	ctx := c.Request().Context()
	if _, err := h.MovieRepo.GetByID(ctx, body.MovieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.TheaterRepo.GetByID(ctx, body.TheaterID); err != nil {
		if err == repository.ErrTheaterNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seatCount, err := h.SeatRepo.CountByTheater(ctx, body.TheaterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if seatCount == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "theater has no seats"})
	}

	show := &model.Show{
		MovieID:    body.MovieID,
		TheaterID:  body.TheaterID,
		StartsAt:   startsAt.UTC(),
		PriceCents: body.PriceCents,
		IsActive:   true,
	}
	tx, err := h.ShowRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.ShowRepo.CreateTx(ctx, tx, show); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create show"})
	}
	if err := h.Engine.InitializeInventory(ctx, tx, show.ID, show.TheaterID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not initialize seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"id":          show.ID,
		"movie_id":    show.MovieID,
		"theater_id":  show.TheaterID,
		"starts_at":   show.StartsAt.Format(time.RFC3339),
		"price_cents": show.PriceCents,
		"seat_count":  seatCount,
	})
}

// UpdateShowPrice handles PATCH /v1/admin/shows/:id/price.  The price
// can only change while no ticket has been sold; afterwards it is
// frozen so historical totals stay consistent.
func (h *AdminHandler) UpdateShowPrice(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var body struct {
		PriceCents int64 `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.PriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
	}
	err := h.ShowRepo.UpdatePrice(c.Request().Context(), showID, body.PriceCents)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"id": showID, "price_cents": body.PriceCents})
	case err == repository.ErrShowNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	case err == repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "show already has sold tickets"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// DeactivateShow handles DELETE /v1/admin/shows/:id.  Shows are soft
// deleted; existing tickets stay valid and cancellable.
func (h *AdminHandler) DeactivateShow(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	err := h.ShowRepo.Deactivate(c.Request().Context(), showID)
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case err == repository.ErrShowNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// ShowOccupancy handles GET /v1/admin/shows/:id/occupancy.  It reports
// booked versus total inventory for a show.
func (h *AdminHandler) ShowOccupancy(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	if _, err := h.ShowRepo.GetByID(ctx, showID); err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.ShowSeatRepo.ListAvailability(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	booked := 0
	for _, s := range seats {
		if s.IsBooked {
			booked++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id": showID,
		"total":   len(seats),
		"booked":  booked,
		"free":    len(seats) - booked,
	})
}
