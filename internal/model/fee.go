package model

import "time"

// BookingFee is one row of the flat-fee configuration table.  The
// most recently created row is the fee in effect; when no row exists
// the fee is zero.  The fee is neither taxed nor discounted.
type BookingFee struct {
	ID        uint64    // booking_fees.id
	FeeCents  uint32    // booking_fees.fee_cents
	CreatedAt time.Time // booking_fees.created_at
}
