// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a reservation commits.  It
// carries enough information for downstream consumers (notifications,
// analytics) to act without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID     uint64   `json:"booking_id"`
	BookingNumber string   `json:"booking_number"`
	UserID        uint64   `json:"user_id"`
	ShowingID     uint64   `json:"showing_id"`
	SeatLabels    []string `json:"seats"`
	TotalCents    uint32   `json:"total_cents"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
