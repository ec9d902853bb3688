// Package pricing computes line and cart totals with GST.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Policy is the tax policy snapshot in force for a computation.
type Policy struct {
	Enabled     bool
	RatePercent decimal.Decimal
}

// ForProduct returns the policy narrowed to a product specific rate. A nil
// rate keeps the account default.
func (p Policy) ForProduct(rate *decimal.Decimal) Policy {
	if rate == nil {
		return p
	}
	return Policy{Enabled: p.Enabled, RatePercent: *rate}
}

// Line is the priced result for a single cart line.
type Line struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeLine prices qty units at unitPrice. Tax is zero when the policy is
// disabled; Total is always Subtotal + Tax.
func ComputeLine(unitPrice decimal.Decimal, qty int, policy Policy) Line {
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
	tax := decimal.Zero
	if policy.Enabled {
		tax = subtotal.Mul(policy.RatePercent).Div(hundred)
	}
	return Line{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// Item is a cart line reduced to what pricing needs. Rate overrides the
// policy's default rate when set.
type Item struct {
	UnitPrice decimal.Decimal
	Quantity  int
	Rate      *decimal.Decimal
}

// Totals sums a set of priced lines.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// ComputeCart prices every item and sums the results.
func ComputeCart(items []Item, policy Policy) (Totals, []Line) {
	totals := Totals{Subtotal: decimal.Zero, Tax: decimal.Zero, GrandTotal: decimal.Zero}
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		line := ComputeLine(it.UnitPrice, it.Quantity, policy.ForProduct(it.Rate))
		lines = append(lines, line)
		totals.Subtotal = totals.Subtotal.Add(line.Subtotal)
		totals.Tax = totals.Tax.Add(line.Tax)
		totals.GrandTotal = totals.GrandTotal.Add(line.Total)
	}
	return totals, lines
}
