package model

import "time"

// Seat is a bookable unit of showing capacity, identified by row
// label plus seat number.  Availability is the only mutable field:
// it flips to false when a booking commits and is never reset
// automatically.
//
// Fields:
//  ID          – primary key identifier.
//  ShowingID   – showing this seat belongs to.
//  RowLabel    – letter or string designating the row (A, B, AA ...).
//  SeatNumber  – position within the row (1-based).
//  IsAvailable – whether the seat can still be booked.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Seat struct {
	ID          uint64    // seats.id
	ShowingID   uint64    // seats.showing_id
	RowLabel    string    // seats.row_label
	SeatNumber  uint32    // seats.seat_number
	IsAvailable bool      // seats.is_available
	CreatedAt   time.Time // seats.created_at
	UpdatedAt   time.Time // seats.updated_at
}
