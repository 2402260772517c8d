package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mparsa/cinema-ticket-booking/internal/booking"
	"github.com/mparsa/cinema-ticket-booking/internal/model"
	"github.com/mparsa/cinema-ticket-booking/internal/repository"
)

// AdminHandler bundles the repositories admins use to manage the
// movie catalog, theaters, seat layouts and shows.  Role checks are
// performed by middleware; handlers only deal with request semantics.
type AdminHandler struct {
	MovieRepo    *repository.MovieRepo    // movie catalog persistence
	TheaterRepo  *repository.TheaterRepo  // theater persistence
	SeatRepo     *repository.SeatRepo     // seat layout persistence
	ShowRepo     *repository.ShowRepo     // show persistence
	ShowSeatRepo *repository.ShowSeatRepo // per-show inventory persistence
	Engine       *booking.Engine          // admissions, cancellations and inventory init
}

// NewAdminHandler constructs a new AdminHandler and panics if any dependency is nil.
func NewAdminHandler(movieRepo *repository.MovieRepo, theaterRepo *repository.TheaterRepo, seatRepo *repository.SeatRepo, showRepo *repository.ShowRepo, showSeatRepo *repository.ShowSeatRepo, engine *booking.Engine) *AdminHandler {
	if movieRepo == nil || theaterRepo == nil || seatRepo == nil || showRepo == nil || showSeatRepo == nil || engine == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		MovieRepo:    movieRepo,
		TheaterRepo:  theaterRepo,
		SeatRepo:     seatRepo,
		ShowRepo:     showRepo,
		ShowSeatRepo: showSeatRepo,
		Engine:       engine,
	}
}

// CreateMovie handles POST /v1/admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DurationMin int    `json:"duration_min"`
		ReleaseDate string `json:"release_date"` // YYYY-MM-DD, optional
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if body.DurationMin <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min must be positive"})
	}
	m := &model.Movie{
		Title:       body.Title,
		Description: strings.TrimSpace(body.Description),
		DurationMin: body.DurationMin,
	}
	if s := strings.TrimSpace(body.ReleaseDate); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid release_date format"})
		}
		m.ReleaseDate = &d
	}
	if err := h.MovieRepo.Create(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create movie"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":           m.ID,
		"title":        m.Title,
		"description":  m.Description,
		"duration_min": m.DurationMin,
		"created_at":   m.CreatedAt,
	})
}

// CreateTheater handles POST /v1/admin/theaters.
func (h *AdminHandler) CreateTheater(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
		City string `json:"city"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.City = strings.TrimSpace(body.City)
	if body.Name == "" || body.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}
	t := &model.Theater{Name: body.Name, City: body.City}
	if err := h.TheaterRepo.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create theater"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         t.ID,
		"name":       t.Name,
		"city":       t.City,
		"created_at": t.CreatedAt,
	})
}

// CreateSeats handles POST /v1/admin/theaters/:id/seats.  It accepts a
// batch of seat definitions and inserts them in one statement.  Seat
// numbers are unique per theater; a duplicate fails the whole batch.
func (h *AdminHandler) CreateSeats(c echo.Context) error {
	theaterID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	var body struct {
		Seats []struct {
			SeatNumber string `json:"seat_number"`
			SeatType   string `json:"seat_type"`
		} `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}
	if _, err := h.TheaterRepo.GetByID(c.Request().Context(), theaterID); err != nil {
		if err == repository.ErrTheaterNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats := make([]model.Seat, 0, len(body.Seats))
	for _, s := range body.Seats {
		num := strings.ToUpper(strings.TrimSpace(s.SeatNumber))
		if num == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number is required for every seat"})
		}
		st := strings.ToUpper(strings.TrimSpace(s.SeatType))
		switch st {
		case "":
			st = model.SeatTypeStandard
		case model.SeatTypeStandard, model.SeatTypePremium, model.SeatTypeRecliner:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat_type"})
		}
		seats = append(seats, model.Seat{TheaterID: theaterID, SeatNumber: num, SeatType: st})
	}
	if err := h.SeatRepo.CreateBulk(c.Request().Context(), seats); err != nil {
		if err == repository.ErrSeatNumberExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat number already exists in theater"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create seats"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(seats)})
}

// ListSeats handles GET /v1/admin/theaters/:id/seats.
func (h *AdminHandler) ListSeats(c echo.Context) error {
	theaterID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	seats, err := h.SeatRepo.GetByTheater(c.Request().Context(), theaterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(seats))
	for _, s := range seats {
		out = append(out, echo.Map{
			"id":          s.ID,
			"seat_number": s.SeatNumber,
			"seat_type":   s.SeatType,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"theater_id": theaterID, "seats": out})
}
