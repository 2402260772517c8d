package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mparsa/cinema-ticket-booking/internal/model"
)

// ErrPaymentNotFound indicates that no payment row exists for a ticket.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo persists the one-to-one settlement record of a ticket.
// Actual card or wallet processing happens in an external gateway; this
// repository only mirrors its outcome alongside the booking writes.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts the payment record within the booking transaction so
// that a ticket and its payment become visible together or not at all.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (ticket_id, amount_cents, method, status, transaction_id)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.TicketID, p.AmountCents, p.Method, p.Status, p.TransactionID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// MarkRefundedTx flips the payment of a ticket to REFUNDED inside the
// cancellation transaction.
func (r *PaymentRepo) MarkRefundedTx(ctx context.Context, tx *sql.Tx, ticketID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE payments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE ticket_id = ?`,
		model.PaymentStatusRefunded, ticketID)
	return err
}

// GetByTicket returns the payment record of a ticket.
func (r *PaymentRepo) GetByTicket(ctx context.Context, ticketID uint64) (*model.Payment, error) {
	const q = `SELECT id, ticket_id, amount_cents, method, status, transaction_id, created_at, updated_at
	           FROM payments WHERE ticket_id = ?`
	var p model.Payment
	err := r.db.QueryRowContext(ctx, q, ticketID).Scan(
		&p.ID, &p.TicketID, &p.AmountCents, &p.Method, &p.Status, &p.TransactionID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}
