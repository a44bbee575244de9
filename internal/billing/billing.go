// Package billing holds the pure totals arithmetic shared by bill generation
// and ad-hoc previews. All math is decimal; callers convert at the edges.
package billing

import "github.com/shopspring/decimal"

// DiscountKind selects how a discount value is interpreted.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFixed   DiscountKind = "fixed"
)

// DefaultTaxRate applies when a delivery confirmation carries no tax_rate.
var DefaultTaxRate = decimal.NewFromFloat(0.05)

var hundred = decimal.NewFromInt(100)

// LineItem is a priced quantity. Quantity is trusted positive; zero or
// negative quantities contribute nothing.
type LineItem struct {
	Price    decimal.Decimal
	Quantity int
}

// Totals is the result of ComputeTotals.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	AfterDiscount  decimal.Decimal `json:"after_discount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeTotals computes subtotal, discount, tax and total for a set of line
// items. A percent discount is clamped to 100%; a fixed discount is clamped
// to the subtotal, so the after-discount amount never goes negative. Tax is
// applied after the discount.
func ComputeTotals(items []LineItem, discount decimal.Decimal, kind DiscountKind, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	if discount.IsNegative() {
		discount = decimal.Zero
	}

	var discountAmount decimal.Decimal
	switch kind {
	case DiscountFixed:
		discountAmount = discount
		if discountAmount.GreaterThan(subtotal) {
			discountAmount = subtotal
		}
	default: // percent
		if discount.GreaterThan(hundred) {
			discount = hundred
		}
		discountAmount = subtotal.Mul(discount).Div(hundred)
	}

	afterDiscount := subtotal.Sub(discountAmount)
	tax := afterDiscount.Mul(taxRate)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		AfterDiscount:  afterDiscount,
		Tax:            tax,
		Total:          afterDiscount.Add(tax),
	}
}
