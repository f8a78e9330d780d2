package model

import "time"

// Booking records a user's confirmed purchase for a showing.  It is
// created atomically together with its tickets and is immutable
// afterwards.  All monetary fields are stored in cents.
//
// Fields:
//  ID            – primary key identifier.
//  BookingNumber – store-assigned human readable number.
//  UserID        – user who made the booking.
//  ShowingID     – showing being booked.
//  Status        – always CONFIRMED in the current design.
//  SubtotalCents – sum of ticket prices before discount.
//  DiscountCents – applied promotion discount.
//  TaxCents      – tax on the post-discount amount.
//  FeeCents      – flat booking fee (untaxed, undiscounted).
//  TotalCents    – discounted subtotal + tax + fee.
//  PromotionID   – applied promotion, if any.
//  PaymentCardID – saved card used, if any.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Booking struct {
	ID            uint64    // bookings.id
	BookingNumber string    // bookings.booking_number
	UserID        uint64    // bookings.user_id
	ShowingID     uint64    // bookings.showing_id
	Status        string    // bookings.status
	SubtotalCents uint32    // bookings.subtotal_cents
	DiscountCents uint32    // bookings.discount_cents
	TaxCents      uint32    // bookings.tax_cents
	FeeCents      uint32    // bookings.fee_cents
	TotalCents    uint32    // bookings.total_cents
	PromotionID   *uint64   // bookings.promotion_id (nullable)
	PaymentCardID *uint64   // bookings.payment_card_id (nullable)
	CreatedAt     time.Time // bookings.created_at
	UpdatedAt     time.Time // bookings.updated_at
}

// Ticket is one seat purchased under a booking.  The seat label is
// denormalised at booking time so a ticket stays printable even if
// the seat row changes later.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – owning booking.
//  SeatID     – seat this ticket claims.
//  SeatLabel  – row label + seat number, e.g. "C7".
//  Category   – fare category (ADULT, SENIOR, CHILD, STUDENT).
//  PriceCents – price paid for this seat in cents.
//  CreatedAt  – creation timestamp.
type Ticket struct {
	ID         uint64    // tickets.id
	BookingID  uint64    // tickets.booking_id
	SeatID     uint64    // tickets.seat_id
	SeatLabel  string    // tickets.seat_label
	Category   string    // tickets.category
	PriceCents uint32    // tickets.price_cents
	CreatedAt  time.Time // tickets.created_at
}
