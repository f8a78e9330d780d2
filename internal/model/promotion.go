package model

import "time"

// Promotion is a discount code with an inclusive validity window.
// The discount may be a percentage of the ticket subtotal, a flat
// amount in cents, or both; when both are present they add up.  The
// applied discount never exceeds the pre-discount subtotal.
//
// Fields:
//  ID              – primary key identifier.
//  Code            – unique promotion code entered by the customer.
//  Description     – human readable summary.
//  DiscountPercent – percentage off the ticket subtotal (0 when unused).
//  DiscountCents   – flat reduction in cents (0 when unused).
//  StartsAt        – first day the code is valid (inclusive).
//  EndsAt          – last day the code is valid (inclusive).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Promotion struct {
	ID              uint64    // promotions.id
	Code            string    // promotions.code
	Description     string    // promotions.description
	DiscountPercent uint32    // promotions.discount_percent
	DiscountCents   uint32    // promotions.discount_cents
	StartsAt        time.Time // promotions.starts_at
	EndsAt          time.Time // promotions.ends_at
	CreatedAt       time.Time // promotions.created_at
	UpdatedAt       time.Time // promotions.updated_at
}
