package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func schedule(fee string) FeeSchedule {
	return FeeSchedule{BookingFee: d(fee), TaxRate: DefaultTaxRate}
}

func TestComputePercentPlusFlatDiscount(t *testing.T) {
	// subtotal 100.00, 10% + 5.00 flat, fee 2.00:
	// discount 15.00, discounted 85.00, tax 5.95, total 92.95
	items := []LineItem{
		{SeatID: 1, Category: "ADULT", Price: d("60.00")},
		{SeatID: 2, Category: "ADULT", Price: d("40.00")},
	}
	promo := &Discount{Percent: d("10"), Flat: d("5.00")}

	q := Compute(items, promo, schedule("2.00"))

	assert.True(t, q.Subtotal.Equal(d("100.00")), "subtotal %s", q.Subtotal)
	assert.True(t, q.DiscountAmount.Equal(d("15.00")), "discount %s", q.DiscountAmount)
	assert.True(t, q.DiscountedSubtotal.Equal(d("85.00")), "discounted %s", q.DiscountedSubtotal)
	assert.True(t, q.TaxAmount.Equal(d("5.95")), "tax %s", q.TaxAmount)
	assert.True(t, q.BookingFee.Equal(d("2.00")), "fee %s", q.BookingFee)
	assert.True(t, q.Total.Equal(d("92.95")), "total %s", q.Total)
}

func TestComputeNoPromotion(t *testing.T) {
	// two tickets at 12.00: subtotal 24.00, tax 1.68, fee 2.00, total 27.68
	items := []LineItem{
		{SeatID: 10, Category: "ADULT", Price: d("12.00")},
		{SeatID: 11, Category: "ADULT", Price: d("12.00")},
	}

	q := Compute(items, nil, schedule("2.00"))

	assert.True(t, q.Subtotal.Equal(d("24.00")), "subtotal %s", q.Subtotal)
	assert.True(t, q.DiscountAmount.IsZero(), "discount %s", q.DiscountAmount)
	assert.True(t, q.TaxAmount.Equal(d("1.68")), "tax %s", q.TaxAmount)
	assert.True(t, q.Total.Equal(d("27.68")), "total %s", q.Total)
}

func TestComputeDiscountClampedToSubtotal(t *testing.T) {
	// 50% + 20.00 flat on a 10.00 subtotal would be 25.00; it must
	// clamp to 10.00 and the total must never go negative.
	items := []LineItem{{SeatID: 1, Category: "CHILD", Price: d("10.00")}}
	promo := &Discount{Percent: d("50"), Flat: d("20.00")}

	q := Compute(items, promo, schedule("1.50"))

	assert.True(t, q.DiscountAmount.Equal(d("10.00")), "discount %s", q.DiscountAmount)
	assert.True(t, q.DiscountedSubtotal.IsZero(), "discounted %s", q.DiscountedSubtotal)
	assert.True(t, q.TaxAmount.IsZero(), "tax %s", q.TaxAmount)
	// only the fee survives
	assert.True(t, q.Total.Equal(d("1.50")), "total %s", q.Total)
}

func TestComputeTaxOnDiscountedAmountNotSubtotal(t *testing.T) {
	items := []LineItem{{SeatID: 1, Category: "ADULT", Price: d("100.00")}}
	promo := &Discount{Percent: d("50"), Flat: decimal.Zero}

	q := Compute(items, promo, schedule("0"))

	// 7% of 50.00, not of 100.00
	assert.True(t, q.TaxAmount.Equal(d("3.50")), "tax %s", q.TaxAmount)
}

func TestComputeFeeNotTaxedNotDiscounted(t *testing.T) {
	items := []LineItem{{SeatID: 1, Category: "ADULT", Price: d("10.00")}}
	promo := &Discount{Percent: d("100"), Flat: decimal.Zero}

	q := Compute(items, promo, schedule("3.00"))

	// everything but the fee is wiped out by the 100% discount
	assert.True(t, q.Total.Equal(d("3.00")), "total %s", q.Total)
}

func TestComputeRoundsEachStep(t *testing.T) {
	// 3 tickets at 9.99 = 29.97; 15% = 4.4955 -> 4.50;
	// discounted 25.47; tax 1.7829 -> 1.78; total 27.25
	items := []LineItem{
		{SeatID: 1, Category: "ADULT", Price: d("9.99")},
		{SeatID: 2, Category: "ADULT", Price: d("9.99")},
		{SeatID: 3, Category: "ADULT", Price: d("9.99")},
	}
	promo := &Discount{Percent: d("15"), Flat: decimal.Zero}

	q := Compute(items, promo, schedule("0"))

	assert.True(t, q.DiscountAmount.Equal(d("4.50")), "discount %s", q.DiscountAmount)
	assert.True(t, q.DiscountedSubtotal.Equal(d("25.47")), "discounted %s", q.DiscountedSubtotal)
	assert.True(t, q.TaxAmount.Equal(d("1.78")), "tax %s", q.TaxAmount)
	assert.True(t, q.Total.Equal(d("27.25")), "total %s", q.Total)
}

func TestComputeDeterministic(t *testing.T) {
	items := []LineItem{
		{SeatID: 1, Category: "ADULT", Price: d("13.37")},
		{SeatID: 2, Category: "SENIOR", Price: d("11.11")},
	}
	promo := &Discount{Percent: d("12"), Flat: d("1.25")}

	a := Compute(items, promo, schedule("2.00"))
	b := Compute(items, promo, schedule("2.00"))

	assert.True(t, a.Total.Equal(b.Total))
	assert.True(t, a.DiscountAmount.Equal(b.DiscountAmount))
	assert.True(t, a.TaxAmount.Equal(b.TaxAmount))
}

func TestComputeEmptyItems(t *testing.T) {
	q := Compute(nil, nil, schedule("2.00"))

	assert.True(t, q.Subtotal.IsZero())
	assert.True(t, q.Total.Equal(d("2.00")))
}

func TestCentsRoundTrip(t *testing.T) {
	require.Equal(t, uint32(9295), Cents(d("92.95")))
	require.Equal(t, uint32(0), Cents(decimal.Zero))
	assert.True(t, FromCents(9295).Equal(d("92.95")))
	assert.True(t, FromCents(0).IsZero())
}
