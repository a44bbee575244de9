package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeTotalsPercentDiscount(t *testing.T) {
	items := []LineItem{
		{Price: d("10"), Quantity: 2},
		{Price: d("5"), Quantity: 1},
	}

	totals := ComputeTotals(items, d("10"), DiscountPercent, DefaultTaxRate)

	assert.True(t, totals.Subtotal.Equal(d("25")), "subtotal: %s", totals.Subtotal)
	assert.True(t, totals.DiscountAmount.Equal(d("2.5")), "discount: %s", totals.DiscountAmount)
	assert.True(t, totals.AfterDiscount.Equal(d("22.5")), "after discount: %s", totals.AfterDiscount)
	assert.True(t, totals.Tax.Equal(d("1.125")), "tax: %s", totals.Tax)
	assert.True(t, totals.Total.Equal(d("23.625")), "total: %s", totals.Total)
}

func TestComputeTotalsFixedDiscountClampedToSubtotal(t *testing.T) {
	items := []LineItem{
		{Price: d("10"), Quantity: 2},
		{Price: d("5"), Quantity: 1},
	}

	totals := ComputeTotals(items, d("100"), DiscountFixed, DefaultTaxRate)

	assert.True(t, totals.Subtotal.Equal(d("25")))
	assert.True(t, totals.DiscountAmount.Equal(d("25")), "discount clamps to subtotal: %s", totals.DiscountAmount)
	assert.True(t, totals.AfterDiscount.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotalsPercentClampedToHundred(t *testing.T) {
	items := []LineItem{{Price: d("40"), Quantity: 1}}

	totals := ComputeTotals(items, d("250"), DiscountPercent, DefaultTaxRate)

	assert.True(t, totals.DiscountAmount.Equal(d("40")))
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotalsNegativeDiscountIgnored(t *testing.T) {
	items := []LineItem{{Price: d("20"), Quantity: 1}}

	totals := ComputeTotals(items, d("-5"), DiscountFixed, decimal.Zero)

	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.Total.Equal(d("20")))
}

func TestComputeTotalsSkipsNonPositiveQuantities(t *testing.T) {
	items := []LineItem{
		{Price: d("10"), Quantity: 0},
		{Price: d("10"), Quantity: -3},
		{Price: d("10"), Quantity: 1},
	}

	totals := ComputeTotals(items, decimal.Zero, DiscountPercent, decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(d("10")))
}

func TestComputeTotalsTaxAfterDiscount(t *testing.T) {
	items := []LineItem{{Price: d("100"), Quantity: 1}}

	totals := ComputeTotals(items, d("20"), DiscountFixed, d("0.1"))

	assert.True(t, totals.AfterDiscount.Equal(d("80")))
	assert.True(t, totals.Tax.Equal(d("8")), "tax applies to the discounted amount: %s", totals.Tax)
	assert.True(t, totals.Total.Equal(d("88")))
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	totals := ComputeTotals(nil, d("10"), DiscountPercent, DefaultTaxRate)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.IsZero())
}
