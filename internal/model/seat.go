package model

import "time"

// Seat type enumeration stored in seats.seat_type.
const (
	SeatTypeStandard = "STANDARD"
	SeatTypePremium  = "PREMIUM"
	SeatTypeRecliner = "RECLINER"
)

// Seat describes a physical seat in a theater.  The seat number is
// unique within its theater.  Seats are immutable from the booking
// engine's point of view; only administrative edits change them.
//
// Fields:
//  ID         – primary key identifier.
//  TheaterID  – theater to which this seat belongs.
//  SeatNumber – label such as "A1" (unique per theater).
//  SeatType   – type of seat (STANDARD, PREMIUM, RECLINER).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Seat struct {
	ID         uint64    // seats.id
	TheaterID  uint64    // seats.theater_id
	SeatNumber string    // seats.seat_number
	SeatType   string    // seats.seat_type
	CreatedAt  time.Time // seats.created_at
	UpdatedAt  time.Time // seats.updated_at
}
