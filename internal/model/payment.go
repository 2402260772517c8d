package model

import "time"

// Payment status enumeration.  Settlement happens in an external
// gateway; these values only mirror its outcome.
const (
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusRefunded  = "REFUNDED"
)

// Payment is the one-to-one settlement record for a ticket.  The
// booking engine creates it alongside the ticket and flips it to
// REFUNDED on cancellation; it never performs card or wallet
// processing itself.
//
// Fields:
//  ID            – primary key identifier.
//  TicketID      – owning ticket (unique).
//  AmountCents   – charged amount in minor units.
//  Method        – payment method label (e.g. CARD, WALLET).
//  Status        – COMPLETED or REFUNDED.
//  TransactionID – external gateway reference.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Payment struct {
	ID            uint64    // payments.id
	TicketID      uint64    // payments.ticket_id
	AmountCents   int64     // payments.amount_cents
	Method        string    // payments.method
	Status        string    // payments.status
	TransactionID string    // payments.transaction_id
	CreatedAt     time.Time // payments.created_at
	UpdatedAt     time.Time // payments.updated_at
}
