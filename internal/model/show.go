package model

import "time"

// Show represents a scheduled screening of a movie in a particular
// theater.  PriceCents applies uniformly to every seat of the show;
// once a ticket has been sold the price is frozen so that historical
// ticket totals never change.  IsActive is a soft-delete flag: an
// inactive show is hidden from browsing and rejects new bookings.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  TheaterID  – theater where the show takes place.
//  StartsAt   – when the show begins (UTC).
//  PriceCents – per-seat price in minor currency units.
//  IsActive   – soft-delete flag.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Show struct {
	ID         uint64    // shows.id
	MovieID    uint64    // shows.movie_id
	TheaterID  uint64    // shows.theater_id
	StartsAt   time.Time // shows.starts_at
	PriceCents int64     // shows.price_cents
	IsActive   bool      // shows.is_active
	CreatedAt  time.Time // shows.created_at
	UpdatedAt  time.Time // shows.updated_at
}
