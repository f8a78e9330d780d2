package model

import "time"

// Movie describes a film in the catalogue.  Showings reference a
// movie; the movie itself carries only descriptive data.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title.
//  Rating      – MPAA-style rating string (G, PG, PG-13, R ...).
//  DurationMin – running time in minutes.
//  Synopsis    – short plot description.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Rating      string    // movies.rating
	DurationMin uint32    // movies.duration_min
	Synopsis    string    // movies.synopsis
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}
