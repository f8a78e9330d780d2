// Package pricing computes booking totals.  It is a pure function of
// its inputs: no I/O, no clock, no shared state, so it is safe to
// call concurrently without synchronisation.  All arithmetic runs on
// decimals and every intermediate named below is rounded to two
// places, which keeps the totals reproducible regardless of how the
// inputs were produced.
package pricing

import "github.com/shopspring/decimal"

// DefaultTaxRate is the fixed sales tax applied to the discounted
// ticket subtotal.
var DefaultTaxRate = decimal.NewFromFloat(0.07)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// LineItem is one ticket request: one seat at one fare category and
// price.  There is no per-seat quantity; a seat is always bought once.
type LineItem struct {
	SeatID   uint64
	Category string
	Price    decimal.Decimal
}

// Discount carries the reduction of an already-validated promotion.
// Percent is a whole percentage of the subtotal (10 means 10%); Flat
// is an absolute amount.  When both are set they are additive.
type Discount struct {
	Percent decimal.Decimal
	Flat    decimal.Decimal
}

// FeeSchedule holds the externally configured flat booking fee and
// the tax rate.  The fee is neither taxed nor discounted.
type FeeSchedule struct {
	BookingFee decimal.Decimal
	TaxRate    decimal.Decimal
}

// Quote is the fully computed price breakdown for a booking.
type Quote struct {
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	DiscountedSubtotal decimal.Decimal
	TaxAmount          decimal.Decimal
	BookingFee         decimal.Decimal
	Total              decimal.Decimal
}

// Compute prices a set of line items under an optional discount and a
// fee schedule.  The order of operations is a contract:
//
//  1. subtotal = sum of line item prices
//  2. discount = subtotal*percent/100 + flat, clamped to subtotal
//  3. discountedSubtotal = max(0, subtotal - discount)
//  4. tax = discountedSubtotal * taxRate   (post-discount, not subtotal)
//  5. fee = schedule's flat booking fee
//  6. total = discountedSubtotal + tax + fee
//
// Steps 2, 3, 4 and 6 each round to two decimal places.
func Compute(items []LineItem, promo *Discount, sched FeeSchedule) Quote {
	subtotal := zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price)
	}
	subtotal = subtotal.Round(2)

	discount := zero
	if promo != nil {
		discount = subtotal.Mul(promo.Percent).Div(hundred).Add(promo.Flat).Round(2)
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		if discount.IsNegative() {
			discount = zero
		}
	}

	discounted := subtotal.Sub(discount).Round(2)
	if discounted.IsNegative() {
		discounted = zero
	}

	tax := discounted.Mul(sched.TaxRate).Round(2)
	fee := sched.BookingFee.Round(2)
	total := discounted.Add(tax).Add(fee).Round(2)

	return Quote{
		Subtotal:           subtotal,
		DiscountAmount:     discount,
		DiscountedSubtotal: discounted,
		TaxAmount:          tax,
		BookingFee:         fee,
		Total:              total,
	}
}

// Cents converts a two-place decimal amount to integer cents for
// storage.  Amounts produced by Compute always fit the conversion
// exactly.
func Cents(d decimal.Decimal) uint32 {
	return uint32(d.Shift(2).IntPart())
}

// FromCents converts stored integer cents back to a decimal amount.
func FromCents(c uint32) decimal.Decimal {
	return decimal.New(int64(c), -2)
}
