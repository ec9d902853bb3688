// Package report aggregates sales into daily and per-product summaries and
// serves them with a per-account cache.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-inventory/internal/sale"
)

// UnknownProduct names sales whose product no longer exists.
const UnknownProduct = "Unknown Product"

// DailySummary accumulates the sales of one calendar date.
type DailySummary struct {
	Date             string          `json:"date"`
	TotalSales       decimal.Decimal `json:"totalSales"`
	TotalQuantity    int             `json:"totalQuantity"`
	TotalGST         decimal.Decimal `json:"totalGst"`
	TransactionCount int             `json:"transactionCount"`
}

// ProductSummary accumulates the sales of one product.
type ProductSummary struct {
	ProductName   string          `json:"productName"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// DateKey is the first ten characters of the record's RFC 3339 UTC
// timestamp. It truncates rather than converting to a local calendar.
func DateKey(createdAt time.Time) string {
	return createdAt.UTC().Format(time.RFC3339)[:10]
}

// AggregateDaily groups records by DateKey. The result is ordered by date
// ascending; callers sort it for presentation.
func AggregateDaily(records []sale.Record) []DailySummary {
	byDate := make(map[string]*DailySummary)
	for _, rec := range records {
		key := DateKey(rec.CreatedAt)
		sum, ok := byDate[key]
		if !ok {
			sum = &DailySummary{Date: key, TotalSales: decimal.Zero, TotalGST: decimal.Zero}
			byDate[key] = sum
		}
		sum.TotalSales = sum.TotalSales.Add(rec.TotalPrice)
		sum.TotalQuantity += int(rec.Quantity)
		if rec.GSTAmount != nil {
			sum.TotalGST = sum.TotalGST.Add(*rec.GSTAmount)
		}
		sum.TransactionCount++
	}
	out := make([]DailySummary, 0, len(byDate))
	for _, sum := range byDate {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// AggregateByProduct groups records by product name. The result is ordered by
// name; callers rank it by revenue.
func AggregateByProduct(records []sale.Record) []ProductSummary {
	byName := make(map[string]*ProductSummary)
	for _, rec := range records {
		name := rec.ProductName
		if name == "" {
			name = UnknownProduct
		}
		sum, ok := byName[name]
		if !ok {
			sum = &ProductSummary{ProductName: name, TotalRevenue: decimal.Zero}
			byName[name] = sum
		}
		sum.TotalQuantity += int(rec.Quantity)
		sum.TotalRevenue = sum.TotalRevenue.Add(rec.TotalPrice)
	}
	out := make([]ProductSummary, 0, len(byName))
	for _, sum := range byName {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out
}

// NewestFirst sorts daily summaries by date descending in place.
func NewestFirst(days []DailySummary) []DailySummary {
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}

// TopByRevenue returns at most n summaries ranked by revenue descending.
func TopByRevenue(products []ProductSummary, n int) []ProductSummary {
	ranked := append([]ProductSummary(nil), products...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalRevenue.GreaterThan(ranked[j].TotalRevenue)
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Totals sums daily summaries.
func Totals(days []DailySummary) DailySummary {
	total := DailySummary{TotalSales: decimal.Zero, TotalGST: decimal.Zero}
	for _, d := range days {
		total.TotalSales = total.TotalSales.Add(d.TotalSales)
		total.TotalGST = total.TotalGST.Add(d.TotalGST)
		total.TotalQuantity += d.TotalQuantity
		total.TransactionCount += d.TransactionCount
	}
	return total
}
