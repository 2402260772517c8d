// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used for ticket lifecycle events.  Both queues are
// declared durable so messages survive broker restarts.
const (
	TicketBookedQueue    = "ticket.booked"
	TicketCancelledQueue = "ticket.cancelled"
)

// TicketBookedEvent is published after a booking transaction commits.
// It carries enough information for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type TicketBookedEvent struct {
	TicketID        uint64   `json:"ticket_id"`
	UserID          uint64   `json:"user_id"`
	ShowID          uint64   `json:"show_id"`
	SeatIDs         []uint64 `json:"seat_ids"`
	TotalPriceCents int64    `json:"total_price_cents"`
	BookedAt        string   `json:"booked_at"`
}

// TicketCancelledEvent is published after a cancellation transaction
// commits, including the refund outcome.
type TicketCancelledEvent struct {
	TicketID          uint64   `json:"ticket_id"`
	UserID            uint64   `json:"user_id"`
	ShowID            uint64   `json:"show_id"`
	SeatIDs           []uint64 `json:"seat_ids"`
	RefundAmountCents int64    `json:"refund_amount_cents"`
	RefundPercentage  int      `json:"refund_percentage"`
	Reason            string   `json:"reason"`
	CancelledAt       string   `json:"cancelled_at"`
}
