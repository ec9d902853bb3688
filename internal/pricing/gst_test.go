package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-inventory/internal/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLineWithTax(t *testing.T) {
	line := pricing.ComputeLine(dec("100"), 2, pricing.Policy{Enabled: true, RatePercent: dec("18")})
	if !line.Subtotal.Equal(dec("200")) || !line.Tax.Equal(dec("36")) || !line.Total.Equal(dec("236")) {
		t.Fatalf("unexpected line %s + %s = %s", line.Subtotal, line.Tax, line.Total)
	}
}

func TestComputeLineTaxDisabled(t *testing.T) {
	line := pricing.ComputeLine(dec("49.99"), 3, pricing.Policy{Enabled: false, RatePercent: dec("18")})
	if !line.Tax.IsZero() {
		t.Fatalf("expected no tax, got %s", line.Tax)
	}
	if !line.Subtotal.Equal(dec("149.97")) || !line.Total.Equal(line.Subtotal) {
		t.Fatalf("unexpected totals %s / %s", line.Subtotal, line.Total)
	}
}

func TestComputeLineTotalIsSubtotalPlusTax(t *testing.T) {
	cases := []struct {
		price string
		qty   int
		rate  string
	}{
		{"0.10", 7, "5"},
		{"19.99", 13, "12.5"},
		{"1", 1, "0"},
		{"250.00", 0, "28"},
	}
	for _, tc := range cases {
		line := pricing.ComputeLine(dec(tc.price), tc.qty, pricing.Policy{Enabled: true, RatePercent: dec(tc.rate)})
		if !line.Total.Equal(line.Subtotal.Add(line.Tax)) {
			t.Fatalf("%+v: total %s != %s + %s", tc, line.Total, line.Subtotal, line.Tax)
		}
	}
}

func TestComputeCartUsesProductRate(t *testing.T) {
	five := dec("5")
	policy := pricing.Policy{Enabled: true, RatePercent: dec("18")}
	totals, lines := pricing.ComputeCart([]pricing.Item{
		{UnitPrice: dec("100"), Quantity: 2},
		{UnitPrice: dec("10"), Quantity: 1, Rate: &five},
	}, policy)

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !lines[1].Tax.Equal(dec("0.5")) {
		t.Fatalf("product rate ignored: tax %s", lines[1].Tax)
	}
	if !totals.Subtotal.Equal(dec("210")) || !totals.Tax.Equal(dec("36.5")) || !totals.GrandTotal.Equal(dec("246.5")) {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestComputeCartEmpty(t *testing.T) {
	totals, lines := pricing.ComputeCart(nil, pricing.Policy{Enabled: true, RatePercent: dec("18")})
	if len(lines) != 0 || !totals.GrandTotal.IsZero() {
		t.Fatalf("empty cart produced %d lines, total %s", len(lines), totals.GrandTotal)
	}
}
