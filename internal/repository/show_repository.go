// Package repository contains data access logic for Show domain operations.
// A Show represents a scheduled screening of a movie in a theater.  The
// per-seat price is frozen once tickets have been sold so that historical
// ticket totals never change.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mparsa/cinema-ticket-booking/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

const showColumns = `id, movie_id, theater_id, starts_at, price_cents, is_active, created_at, updated_at`

func scanShow(row *sql.Row) (*model.Show, error) {
	var s model.Show
	err := row.Scan(&s.ID, &s.MovieID, &s.TheaterID, &s.StartsAt, &s.PriceCents, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CreateTx inserts a new show within the caller's transaction and
// populates the generated ID and DB-default fields on the given model.
// The caller must commit or roll back the transaction; show creation is
// paired with inventory materialization in one atomic unit.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
	const q = `INSERT INTO shows (movie_id, theater_id, starts_at, price_cents) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.MovieID, s.TheaterID, s.StartsAt, s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.ID, &s.MovieID, &s.TheaterID, &s.StartsAt, &s.PriceCents, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	return scanShow(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDTx retrieves a show inside the caller's transaction.  The
// booking engine reads the show this way so that price and active flag
// come from the same consistent snapshot as the locked inventory rows.
func (r *ShowRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	return scanShow(tx.QueryRowContext(ctx, q, id))
}

// ListByMovie returns all active shows for a movie ordered by start
// time ascending.  Used by public browse endpoints.
func (r *ShowRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows
	           WHERE movie_id = ? AND is_active = 1
	           ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.MovieID, &s.TheaterID, &s.StartsAt, &s.PriceCents, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// HasTickets reports whether any non-cancelled ticket references the
// show.  The price of such a show must not be changed.
func (r *ShowRepo) HasTickets(ctx context.Context, showID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE show_id = ? AND status <> ?`,
		showID, model.TicketStatusCancelled).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdatePrice changes the per-seat price of a show.  It returns
// ErrConflict when tickets have already been sold for the show and
// ErrShowNotFound when the show does not exist.
func (r *ShowRepo) UpdatePrice(ctx context.Context, showID uint64, priceCents int64) error {
	sold, err := r.HasTickets(ctx, showID)
	if err != nil {
		return err
	}
	if sold {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE shows SET price_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		priceCents, showID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowNotFound
	}
	return nil
}

// Deactivate soft-deletes a show.  Existing tickets are untouched; the
// show simply stops accepting new bookings and disappears from browse.
func (r *ShowRepo) Deactivate(ctx context.Context, showID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shows SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_active = 1`,
		showID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowNotFound
	}
	return nil
}
