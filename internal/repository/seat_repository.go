package repository // repository defines data access for theater seats

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mparsa/cinema-ticket-booking/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatNumberExists is returned when a seat number collides with an
// existing seat in the same theater (UNIQUE(theater_id, seat_number)).
var ErrSeatNumberExists = errors.New("seat number already exists in theater")

// SeatRepo provides methods to work with seats in the database.  Seats
// are the static per-theater catalog; bookable state lives in
// show_seats.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// Create inserts a single seat record. On success the seat's ID is populated.
func (r *SeatRepo) Create(ctx context.Context, s *model.Seat) error {
	const q = `INSERT INTO seats (theater_id, seat_number, seat_type) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.TheaterID, s.SeatNumber, s.SeatType)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSeatNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// CreateBulk inserts multiple seats in a single statement.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (theater_id, seat_number, seat_type) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, seat.TheaterID, seat.SeatNumber, seat.SeatType)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrSeatNumberExists
	}
	return err
}

// GetByTheater retrieves all seats of a theater ordered by seat number.
func (r *SeatRepo) GetByTheater(ctx context.Context, theaterID uint64) ([]model.Seat, error) {
	const q = `SELECT id, theater_id, seat_number, seat_type, created_at, updated_at
	           FROM seats
	           WHERE theater_id = ?
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.SeatNumber, &s.SeatType, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, theater_id, seat_number, seat_type, created_at, updated_at
	           FROM seats WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.TheaterID, &s.SeatNumber, &s.SeatType, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CountByTheater returns the number of seats defined for a theater.
func (r *SeatRepo) CountByTheater(ctx context.Context, theaterID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seats WHERE theater_id = ?`, theaterID).Scan(&n)
	return n, err
}
