package repository // repository for per-show seat inventory persistence

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mparsa/cinema-ticket-booking/internal/model"
)

// ShowSeatRepo encapsulates database operations for show_seats, the
// inventory rows contended by concurrent bookings.  Every mutation of
// is_booked happens through the *Tx methods inside a transaction that
// first acquired row locks via LockAndFetchTx ("lock then verify").
type ShowSeatRepo struct {
	db *sql.DB
}

// NewShowSeatRepo constructs a ShowSeatRepo given a DB handle.
func NewShowSeatRepo(db *sql.DB) *ShowSeatRepo {
	return &ShowSeatRepo{db: db}
}

// InitializeForShowTx materializes one show_seat row per seat of the
// show's theater, all available.  INSERT IGNORE together with the
// UNIQUE(show_id, seat_id) constraint makes the call idempotent:
// running it twice for the same show never creates duplicate rows.
func (r *ShowSeatRepo) InitializeForShowTx(ctx context.Context, tx *sql.Tx, showID, theaterID uint64) error {
	const q = `INSERT IGNORE INTO show_seats (show_id, seat_id, is_booked)
	           SELECT ?, s.id, 0 FROM seats s WHERE s.theater_id = ?`
	_, err := tx.ExecContext(ctx, q, showID, theaterID)
	return err
}

// LockAndFetchTx acquires exclusive row locks on the requested inventory
// rows and returns only those that belong to the given show and are not
// booked.  The locks are held until the enclosing transaction commits or
// rolls back, so no concurrent transaction can read-modify the same rows
// in between.  Callers must abort when the returned set is smaller than
// the requested one: a missing row is either unknown, owned by another
// show, or already booked.
func (r *ShowSeatRepo) LockAndFetchTx(ctx context.Context, tx *sql.Tx, showID uint64, showSeatIDs []uint64) ([]model.ShowSeat, error) {
	if len(showSeatIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(showSeatIDs))
	args := make([]interface{}, 0, len(showSeatIDs)+1)
	args = append(args, showID)
	for _, id := range showSeatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `SELECT id, show_id, seat_id, is_booked FROM show_seats
	          WHERE show_id = ? AND is_booked = 0 AND id IN (` + strings.Join(placeholders, ",") + `)
	          FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.ShowSeat
	for rows.Next() {
		var ss model.ShowSeat
		if err := rows.Scan(&ss.ID, &ss.ShowID, &ss.SeatID, &ss.IsBooked); err != nil {
			return nil, err
		}
		result = append(result, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkBookedTx flips the named inventory rows to booked.  The rows must
// already be locked by the enclosing transaction via LockAndFetchTx.
func (r *ShowSeatRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, showID uint64, showSeatIDs []uint64) error {
	if len(showSeatIDs) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(showSeatIDs))
	args := make([]interface{}, 0, len(showSeatIDs)+1)
	args = append(args, showID)
	for _, id := range showSeatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `UPDATE show_seats SET is_booked = 1, updated_at = CURRENT_TIMESTAMP
	          WHERE show_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)`
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// MarkAvailableBySeatsTx releases the inventory rows of the given show
// whose physical seat IDs are listed.  Cancellation uses seat IDs (taken
// from ticket_seats history) rather than show_seat IDs.
func (r *ShowSeatRepo) MarkAvailableBySeatsTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showID)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `UPDATE show_seats SET is_booked = 0, updated_at = CURRENT_TIMESTAMP
	          WHERE show_id = ? AND seat_id IN (` + strings.Join(placeholders, ",") + `)`
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// SeatAvailability is the read-side projection returned to browsing
// clients: one entry per inventory row joined with seat identity.
type SeatAvailability struct {
	ShowSeatID uint64 `json:"show_seat_id"`
	SeatID     uint64 `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	SeatType   string `json:"seat_type"`
	IsBooked   bool   `json:"is_booked"`
}

// ListAvailability returns the full seat map of a show ordered by seat
// number.  It is a plain read; booking decisions are never made from
// this snapshot (the engine re-checks under row locks).
func (r *ShowSeatRepo) ListAvailability(ctx context.Context, showID uint64) ([]SeatAvailability, error) {
	const q = `SELECT ss.id, se.id, se.seat_number, se.seat_type, ss.is_booked
	           FROM show_seats ss
	           JOIN seats se ON se.id = ss.seat_id
	           WHERE ss.show_id = ?
	           ORDER BY se.seat_number`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]SeatAvailability, 0)
	for rows.Next() {
		var sa SeatAvailability
		if err := rows.Scan(&sa.ShowSeatID, &sa.SeatID, &sa.SeatNumber, &sa.SeatType, &sa.IsBooked); err != nil {
			return nil, err
		}
		result = append(result, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountBooked returns how many inventory rows of a show are currently
// booked.  Used by admin views and by tests of the release invariant.
func (r *ShowSeatRepo) CountBooked(ctx context.Context, showID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM show_seats WHERE show_id = ? AND is_booked = 1`, showID).Scan(&n)
	return n, err
}
