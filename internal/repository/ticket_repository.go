package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mparsa/cinema-ticket-booking/internal/model"
)

// ErrTicketNotFound indicates that a ticket lookup yielded no rows.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepo provides CRUD operations for tickets and their seat links.
// Tickets group together one or more seats purchased for a show by a
// user.  Seats bought under a ticket are stored in the ticket_seats
// table and are kept as historical record even after cancellation.
// All timestamp fields are stored in UTC.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying sql.DB so the booking engine can begin
// transactions spanning tickets, payments and inventory rows.
func (r *TicketRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new ticket within the scope of an existing
// transaction and populates the generated ID and DB-default fields on
// the provided model.  The caller must commit or roll back the
// transaction.  Status should be a valid enumeration (PAID, CANCELLED,
// USED); new tickets are always created PAID.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	const q = `INSERT INTO tickets (user_id, show_id, status, total_price_cents, qr_payload, booking_time)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, t.UserID, t.ShowID, t.Status, t.TotalPriceCents, t.QRPayload, t.BookingTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM tickets WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// SetQRPayloadTx stores the admission payload for a ticket.  The
// payload is a deterministic function of the ticket ID, so it can only
// be computed after the INSERT assigned one.
func (r *TicketRepo) SetQRPayloadTx(ctx context.Context, tx *sql.Tx, ticketID uint64, payload string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE tickets SET qr_payload = ? WHERE id = ?`, payload, ticketID)
	return err
}

// CreateSeatsBulkTx inserts multiple ticket_seats rows in a single
// statement.  The caller must supply the ticket ID in each record.
// Passing an empty slice has no effect and returns nil.
func (r *TicketRepo) CreateSeatsBulkTx(ctx context.Context, tx *sql.Tx, seats []model.TicketSeat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO ticket_seats (ticket_id, show_id, seat_id, price_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.TicketID, s.ShowID, s.SeatID, s.PriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetForUpdateTx loads a ticket and acquires an exclusive row lock on
// it for the duration of the transaction, then reads the show's start
// time from the same snapshot.  Cancellation serializes on this lock so
// that two concurrent cancels (or a cancel racing an admission) cannot
// both observe status PAID.  Returns ErrTicketNotFound for unknown IDs.
func (r *TicketRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, ticketID uint64) (*model.Ticket, time.Time, error) {
	const q = `SELECT id, user_id, show_id, status, total_price_cents, qr_payload, booking_time
	           FROM tickets WHERE id = ? FOR UPDATE`
	var t model.Ticket
	err := tx.QueryRowContext(ctx, q, ticketID).Scan(
		&t.ID, &t.UserID, &t.ShowID, &t.Status, &t.TotalPriceCents, &t.QRPayload, &t.BookingTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrTicketNotFound
		}
		return nil, time.Time{}, err
	}
	var startsAt time.Time
	if err := tx.QueryRowContext(ctx,
		`SELECT starts_at FROM shows WHERE id = ?`, t.ShowID).Scan(&startsAt); err != nil {
		return nil, time.Time{}, err
	}
	return &t, startsAt.UTC(), nil
}

// SeatIDsTx returns the physical seat IDs booked under a ticket.  Read
// inside the cancellation transaction so the released inventory rows
// match the ticket's historical seat links exactly.
func (r *TicketRepo) SeatIDsTx(ctx context.Context, tx *sql.Tx, ticketID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_id FROM ticket_seats WHERE ticket_id = ?`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seatIDs []uint64
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		seatIDs = append(seatIDs, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seatIDs, nil
}

// UpdateCancelledTx records the cancellation outcome on the ticket:
// terminal status, timestamp, caller-supplied reason and the computed
// refund.  Must run inside the transaction that releases the seats.
func (r *TicketRepo) UpdateCancelledTx(ctx context.Context, tx *sql.Tx, ticketID uint64, cancelledAt time.Time, reason string, refundCents int64) error {
	const q = `UPDATE tickets
	           SET status = ?, cancelled_at = ?, cancellation_reason = ?, refund_amount_cents = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, model.TicketStatusCancelled, cancelledAt, reason, refundCents, ticketID)
	return err
}

// MarkUsed transitions a PAID ticket to USED at admission.  It reports
// ErrTicketNotFound for unknown IDs and ErrConflict when the ticket is
// not in the PAID state (already used or cancelled).
func (r *TicketRepo) MarkUsed(ctx context.Context, ticketID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		model.TicketStatusUsed, ticketID, model.TicketStatusPaid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM tickets WHERE id = ? LIMIT 1`, ticketID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTicketNotFound
		}
		return err
	}
	return ErrConflict // exists but not PAID
}

// TicketSeatDetail is one purchased seat inside a TicketDetail.
type TicketSeatDetail struct {
	SeatID     uint64 `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	SeatType   string `json:"seat_type"`
}

// TicketDetail is the read-side projection of a ticket together with
// its movie, theater, show and seat information.  Related rows are
// assembled explicitly here instead of traversing foreign keys at the
// call site.
type TicketDetail struct {
	ID                 uint64             `json:"id"`
	ShowID             uint64             `json:"show_id"`
	Status             string             `json:"status"`
	TotalPriceCents    int64              `json:"total_price_cents"`
	QRPayload          string             `json:"qr_payload"`
	BookingTime        string             `json:"booking_time"`
	MovieTitle         string             `json:"movie_title"`
	TheaterName        string             `json:"theater_name"`
	StartsAt           string             `json:"starts_at"`
	CancelledAt        *string            `json:"cancelled_at,omitempty"`
	CancellationReason *string            `json:"cancellation_reason,omitempty"`
	RefundAmountCents  *int64             `json:"refund_amount_cents,omitempty"`
	Seats              []TicketSeatDetail `json:"seats"`
}

const ticketDetailQuery = `SELECT t.id, t.show_id, t.status, t.total_price_cents, t.qr_payload, t.booking_time,
	       m.title, th.name, s.starts_at,
	       t.cancelled_at, t.cancellation_reason, t.refund_amount_cents
	FROM tickets t
	JOIN shows s ON s.id = t.show_id
	JOIN movies m ON m.id = s.movie_id
	JOIN theaters th ON th.id = s.theater_id`

func scanTicketDetail(scanner interface{ Scan(...interface{}) error }) (*TicketDetail, error) {
	var d TicketDetail
	var bookingTime, startsAt time.Time
	var cancelledAt sql.NullTime
	var reason sql.NullString
	var refund sql.NullInt64
	err := scanner.Scan(
		&d.ID, &d.ShowID, &d.Status, &d.TotalPriceCents, &d.QRPayload, &bookingTime,
		&d.MovieTitle, &d.TheaterName, &startsAt,
		&cancelledAt, &reason, &refund,
	)
	if err != nil {
		return nil, err
	}
	d.BookingTime = bookingTime.UTC().Format(time.RFC3339)
	d.StartsAt = startsAt.UTC().Format(time.RFC3339)
	if cancelledAt.Valid {
		iso := cancelledAt.Time.UTC().Format(time.RFC3339)
		d.CancelledAt = &iso
	}
	if reason.Valid {
		rs := reason.String
		d.CancellationReason = &rs
	}
	if refund.Valid {
		rc := refund.Int64
		d.RefundAmountCents = &rc
	}
	d.Seats = []TicketSeatDetail{}
	return &d, nil
}

// GetByIDForUser returns a single ticket detail for the given user.
// Ownership is enforced in the query; ErrTicketNotFound covers both an
// unknown ID and a ticket belonging to someone else.
func (r *TicketRepo) GetByIDForUser(ctx context.Context, ticketID, userID uint64) (*TicketDetail, error) {
	const q = ticketDetailQuery + ` WHERE t.id = ? AND t.user_id = ?`
	d, err := scanTicketDetail(r.db.QueryRowContext(ctx, q, ticketID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if err := r.fillSeats(ctx, map[uint64]*TicketDetail{d.ID: d}); err != nil {
		return nil, err
	}
	return d, nil
}

// ListByUser returns all tickets of a user, newest first, with movie,
// theater, show and seat details.  When no tickets exist, an empty
// slice is returned.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]TicketDetail, error) {
	const q = ticketDetailQuery + ` WHERE t.user_id = ? ORDER BY t.booking_time DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]TicketDetail, 0)
	byID := make(map[uint64]*TicketDetail)
	for rows.Next() {
		d, err := scanTicketDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
		byID[d.ID] = &details[len(details)-1]
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	if err := r.fillSeats(ctx, byID); err != nil {
		return nil, err
	}
	return details, nil
}

// fillSeats populates the seat lists of all given ticket details with a
// single IN query, keyed by ticket ID.
func (r *TicketRepo) fillSeats(ctx context.Context, byID map[uint64]*TicketDetail) error {
	ids := make([]interface{}, 0, len(byID))
	placeholders := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
		placeholders = append(placeholders, "?")
	}
	query := `SELECT ts.ticket_id, ts.seat_id, se.seat_number, se.seat_type
	          FROM ticket_seats ts
	          JOIN seats se ON se.id = ts.seat_id
	          WHERE ts.ticket_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY ts.ticket_id, se.seat_number`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var tid uint64
		var sd TicketSeatDetail
		if err := rows.Scan(&tid, &sd.SeatID, &sd.SeatNumber, &sd.SeatType); err != nil {
			return err
		}
		if d, ok := byID[tid]; ok {
			d.Seats = append(d.Seats, sd)
		}
	}
	return rows.Err()
}

// GetQRPayload returns the stored admission payload of a ticket owned
// by the given user (admins pass userID 0 to skip the ownership check).
func (r *TicketRepo) GetQRPayload(ctx context.Context, ticketID, userID uint64) (string, error) {
	q := `SELECT qr_payload FROM tickets WHERE id = ?`
	args := []interface{}{ticketID}
	if userID != 0 {
		q += ` AND user_id = ?`
		args = append(args, userID)
	}
	var payload string
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTicketNotFound
		}
		return "", err
	}
	return payload, nil
}
