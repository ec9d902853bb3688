package report_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-inventory/internal/report"
	"github.com/noah-isme/backend-inventory/internal/sale"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func gst(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func sampleRecords() []sale.Record {
	day1 := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 2, 23, 59, 0, 0, time.UTC)
	return []sale.Record{
		{ProductName: "A", Quantity: 2, TotalPrice: dec(236), GSTAmount: gst(36), CreatedAt: day1},
		{ProductName: "B", Quantity: 1, TotalPrice: dec(50), CreatedAt: day1.Add(time.Hour)},
		{ProductName: "A", Quantity: 1, TotalPrice: dec(118), GSTAmount: gst(18), CreatedAt: day2},
		{ProductName: "", Quantity: 4, TotalPrice: dec(40), CreatedAt: day2},
	}
}

func TestAggregateDaily(t *testing.T) {
	days := report.AggregateDaily(sampleRecords())
	require.Len(t, days, 2)
	require.Equal(t, "2026-05-01", days[0].Date)
	require.True(t, days[0].TotalSales.Equal(dec(286)))
	require.True(t, days[0].TotalGST.Equal(dec(36)))
	require.Equal(t, 3, days[0].TotalQuantity)
	require.Equal(t, 2, days[0].TransactionCount)
	require.Equal(t, "2026-05-02", days[1].Date)
	require.Equal(t, 2, days[1].TransactionCount)
}

func TestAggregateDailyIsOrderIndependent(t *testing.T) {
	records := sampleRecords()
	want := report.AggregateDaily(records)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]sale.Record(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		require.Equal(t, want, report.AggregateDaily(shuffled))
	}
}

func TestDateKeyTruncatesUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2026, 5, 2, 2, 0, 0, 0, ist)
	require.Equal(t, "2026-05-01", report.DateKey(ts))
}

func TestAggregateByProduct(t *testing.T) {
	records := []sale.Record{
		{ProductName: "A", Quantity: 2, TotalPrice: dec(200)},
		{ProductName: "A", Quantity: 1, TotalPrice: dec(100)},
		{ProductName: "B", Quantity: 5, TotalPrice: dec(500)},
	}
	got := report.AggregateByProduct(records)
	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].ProductName)
	require.Equal(t, 3, got[0].TotalQuantity)
	require.True(t, got[0].TotalRevenue.Equal(dec(300)))
	require.Equal(t, "B", got[1].ProductName)
	require.Equal(t, 5, got[1].TotalQuantity)
	require.True(t, got[1].TotalRevenue.Equal(dec(500)))
}

func TestAggregateByProductUnknownName(t *testing.T) {
	got := report.AggregateByProduct(sampleRecords())
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.ProductName)
	}
	require.Contains(t, names, report.UnknownProduct)
}

func TestTopByRevenue(t *testing.T) {
	products := []report.ProductSummary{
		{ProductName: "A", TotalRevenue: dec(300)},
		{ProductName: "B", TotalRevenue: dec(500)},
		{ProductName: "C", TotalRevenue: dec(10)},
	}
	top := report.TopByRevenue(products, 2)
	require.Len(t, top, 2)
	require.Equal(t, "B", top[0].ProductName)
	require.Equal(t, "A", top[1].ProductName)
	require.Equal(t, "A", products[0].ProductName)
}
