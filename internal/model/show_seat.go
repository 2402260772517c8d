package model

import "time"

// ShowSeat is the bookable-state record for one physical seat within
// one specific show.  There is exactly one row per (show, seat) pair,
// created when the show is scheduled.  IsBooked is the contended flag:
// it is flipped only by the booking engine inside a transaction that
// holds a row lock on the record.
//
// Fields:
//  ID        – primary key identifier.
//  ShowID    – the show to which this seat belongs.
//  SeatID    – the physical seat being made available.
//  IsBooked  – whether a non-cancelled ticket currently holds the seat.
//  CreatedAt – timestamp when the record was created.
//  UpdatedAt – timestamp when the record was last updated.
type ShowSeat struct {
	ID        uint64    // show_seats.id
	ShowID    uint64    // show_seats.show_id
	SeatID    uint64    // show_seats.seat_id
	IsBooked  bool      // show_seats.is_booked
	CreatedAt time.Time // show_seats.created_at
	UpdatedAt time.Time // show_seats.updated_at
}
