package model

import "time"

// Movie represents a film in the catalog.  Movies are created and
// edited by admins; customers only read them while browsing shows.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  Description – synopsis shown on browse endpoints.
//  DurationMin – running time in minutes.
//  ReleaseDate – theatrical release date, nil when unknown.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64     // movies.id
	Title       string     // movies.title
	Description string     // movies.description
	DurationMin int        // movies.duration_min
	ReleaseDate *time.Time // movies.release_date
	CreatedAt   time.Time  // movies.created_at
	UpdatedAt   time.Time  // movies.updated_at
}
