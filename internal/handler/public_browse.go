package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mparsa/cinema-ticket-booking/internal/model"
	"github.com/mparsa/cinema-ticket-booking/internal/repository"
)

// PublicHandler serves unauthenticated browse endpoints: the movie
// catalog, upcoming shows and per-show seat availability.  These are
// plain reads; the availability map is advisory and the booking
// engine re-validates under row locks.
type PublicHandler struct {
	MovieRepo    *repository.MovieRepo
	TheaterRepo  *repository.TheaterRepo
	ShowRepo     *repository.ShowRepo
	ShowSeatRepo *repository.ShowSeatRepo
}

// NewPublicHandler constructs a new PublicHandler and panics if any dependency is nil.
func NewPublicHandler(movieRepo *repository.MovieRepo, theaterRepo *repository.TheaterRepo, showRepo *repository.ShowRepo, showSeatRepo *repository.ShowSeatRepo) *PublicHandler {
	if movieRepo == nil || theaterRepo == nil || showRepo == nil || showSeatRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{
		MovieRepo:    movieRepo,
		TheaterRepo:  theaterRepo,
		ShowRepo:     showRepo,
		ShowSeatRepo: showSeatRepo,
	}
}

func movieJSON(m model.Movie) echo.Map {
	out := echo.Map{
		"id":           m.ID,
		"title":        m.Title,
		"description":  m.Description,
		"duration_min": m.DurationMin,
	}
	if m.ReleaseDate != nil {
		out["release_date"] = m.ReleaseDate.Format("2006-01-02")
	}
	return out
}

// ListMovies handles GET /v1/movies.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies, err := h.MovieRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieJSON(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": out})
}

// ListShowsByMovie handles GET /v1/movies/:id/shows.  Only active
// shows are listed; deactivated ones disappear from browsing but keep
// their sold tickets.
func (h *PublicHandler) ListShowsByMovie(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	movie, err := h.MovieRepo.GetByID(ctx, movieID)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	shows, err := h.ShowRepo.ListByMovie(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(shows))
	for _, s := range shows {
		out = append(out, echo.Map{
			"id":          s.ID,
			"theater_id":  s.TheaterID,
			"starts_at":   s.StartsAt.Format(time.RFC3339),
			"price_cents": s.PriceCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"movie": movieJSON(*movie), "shows": out})
}

// GetShow handles GET /v1/shows/:id.
func (h *PublicHandler) GetShow(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	show, err := h.ShowRepo.GetByID(ctx, showID)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !show.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	}
	out := echo.Map{
		"id":          show.ID,
		"movie_id":    show.MovieID,
		"theater_id":  show.TheaterID,
		"starts_at":   show.StartsAt.Format(time.RFC3339),
		"price_cents": show.PriceCents,
	}
	if movie, err := h.MovieRepo.GetByID(ctx, show.MovieID); err == nil {
		out["movie"] = movieJSON(*movie)
	}
	if theater, err := h.TheaterRepo.GetByID(ctx, show.TheaterID); err == nil {
		out["theater"] = echo.Map{"id": theater.ID, "name": theater.Name, "city": theater.City}
	}
	return c.JSON(http.StatusOK, out)
}

// ShowSeats handles GET /v1/shows/:id/seats.  It returns the full
// seat map with per-seat booked flags so clients can render the
// auditorium and pick free seats.
func (h *PublicHandler) ShowSeats(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	show, err := h.ShowRepo.GetByID(ctx, showID)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !show.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	}
	seats, err := h.ShowSeatRepo.ListAvailability(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	free := 0
	for _, s := range seats {
		if !s.IsBooked {
			free++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id":     showID,
		"price_cents": show.PriceCents,
		"free":        free,
		"seats":       seats,
	})
}
