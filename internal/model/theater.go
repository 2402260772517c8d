package model

import "time"

// Theater represents a screening room with a fixed seat layout.
// Every show runs in exactly one theater and its show_seats rows are
// derived from the theater's seats.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name such as "Screen 1".
//  City      – city the theater is located in.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Theater struct {
	ID        uint64    // theaters.id
	Name      string    // theaters.name
	City      string    // theaters.city
	CreatedAt time.Time // theaters.created_at
	UpdatedAt time.Time // theaters.updated_at
}
