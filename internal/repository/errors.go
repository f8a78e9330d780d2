// Package repository defines error values that are reused across
// multiple repositories.  These sentinels let the handler layer
// distinguish failure scenarios and map them onto HTTP statuses
// without inspecting SQL errors directly.
package repository

import (
	"errors"
	"fmt"
)

// ErrConflict is returned when a delete or update cannot proceed
// because of dependent records, such as removing a movie that still
// has showings.  Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrSeatNotFound is returned when a requested seat does not exist
// for the specified showing.  Handlers translate it into HTTP 400.
var ErrSeatNotFound = errors.New("seat not found for showing")

// ErrPromotionNotFound is returned when no promotion matches the
// supplied code or the current date falls outside its validity
// window.  Handlers translate it into HTTP 400.
var ErrPromotionNotFound = errors.New("invalid promotion")

// ErrCardNotFound is returned when a saved payment card does not
// exist or does not belong to the requesting user.  Handlers
// translate it into HTTP 400.
var ErrCardNotFound = errors.New("payment card not found")

// SeatsUnavailableError reports which requested seats were already
// booked.  It is produced inside the locking read so a losing
// concurrent request can tell the customer exactly which seats to
// re-pick.  Handlers translate it into HTTP 409.
type SeatsUnavailableError struct {
	SeatIDs []uint64
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("%d seat(s) no longer available", len(e.SeatIDs))
}
