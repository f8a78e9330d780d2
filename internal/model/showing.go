package model

import "time"

// Showing is a scheduled screening of a movie in a specific
// auditorium at a specific start/end time.  Seats are created per
// showing and live for its lifetime.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  Auditorium – name or number of the room.
//  StartsAt   – scheduled start time (UTC).
//  EndsAt     – scheduled end time (UTC).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Showing struct {
	ID         uint64    // showings.id
	MovieID    uint64    // showings.movie_id
	Auditorium string    // showings.auditorium
	StartsAt   time.Time // showings.starts_at
	EndsAt     time.Time // showings.ends_at
	CreatedAt  time.Time // showings.created_at
	UpdatedAt  time.Time // showings.updated_at
}
