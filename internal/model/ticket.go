package model

import "time"

// Ticket status enumeration.  PAID is the only state a ticket is
// created in.  PAID may transition to USED (admission) or CANCELLED
// (refund); both of those are terminal.
const (
	TicketStatusPaid      = "PAID"
	TicketStatusCancelled = "CANCELLED"
	TicketStatusUsed      = "USED"
)

// Ticket records a user's purchase of one or more seats for a show.
// It is created atomically with its TicketSeat links and its Payment
// record.  Cancellation fields stay nil until the ticket is cancelled.
//
// Fields:
//  ID                 – primary key identifier.
//  UserID             – purchasing user.
//  ShowID             – show the ticket is for.
//  Status             – PAID, CANCELLED or USED.
//  TotalPriceCents    – show price × seat count, in minor units.
//  QRPayload          – opaque admission payload, deterministic in the
//                       ticket ID.
//  BookingTime        – when the purchase was committed (UTC).
//  CancelledAt        – when the ticket was cancelled (nullable).
//  CancellationReason – free-text reason supplied by the caller.
//  RefundAmountCents  – refunded amount in minor units (nullable).
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Ticket struct {
	ID                 uint64     // tickets.id
	UserID             uint64     // tickets.user_id
	ShowID             uint64     // tickets.show_id
	Status             string     // tickets.status
	TotalPriceCents    int64      // tickets.total_price_cents
	QRPayload          string     // tickets.qr_payload
	BookingTime        time.Time  // tickets.booking_time
	CancelledAt        *time.Time // tickets.cancelled_at (nullable)
	CancellationReason *string    // tickets.cancellation_reason (nullable)
	RefundAmountCents  *int64     // tickets.refund_amount_cents (nullable)
	CreatedAt          time.Time  // tickets.created_at
	UpdatedAt          time.Time  // tickets.updated_at

	// SeatCount is derived, not a column: the number of TicketSeat
	// links actually created for this ticket.
	SeatCount int
}

// TicketSeat links a ticket to one physical seat it purchased.  It
// references the seat, not the show_seat row, because the inventory
// row's booked flag is transient state while the seat identity is
// permanent history.  TicketSeat rows are never mutated or deleted,
// even after cancellation.
//
// Fields:
//  ID         – primary key identifier.
//  TicketID   – reference to the owning ticket.
//  ShowID     – show in which the seat was booked.
//  SeatID     – physical seat that was purchased.
//  PriceCents – price paid for this seat in minor units.
//  CreatedAt  – creation timestamp.
type TicketSeat struct {
	ID         uint64    // ticket_seats.id
	TicketID   uint64    // ticket_seats.ticket_id
	ShowID     uint64    // ticket_seats.show_id
	SeatID     uint64    // ticket_seats.seat_id
	PriceCents int64     // ticket_seats.price_cents
	CreatedAt  time.Time // ticket_seats.created_at
}
