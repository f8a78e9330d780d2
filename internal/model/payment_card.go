package model

import "time"

// PaymentCard is a saved card on a user's profile.  Only the brand,
// the last four digits and the expiration are persisted; full card
// numbers never reach storage.
type PaymentCard struct {
	ID        uint64    // payment_cards.id
	UserID    uint64    // payment_cards.user_id
	Brand     string    // payment_cards.brand
	Last4     string    // payment_cards.last4
	Expires   string    // payment_cards.expires (MM/YY)
	CreatedAt time.Time // payment_cards.created_at
}
