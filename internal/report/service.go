package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/obs"
	"github.com/noah-isme/backend-inventory/internal/sale"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

// ErrAccountRequired is returned when no account is bound to the context.
var ErrAccountRequired = errors.New("report: account required")

// SalesSource reads sales for aggregation.
type SalesSource interface {
	InRange(ctx context.Context, from, to time.Time) ([]sale.Record, error)
	StatsSince(ctx context.Context, since time.Time) (dbgen.SalesStatsSinceRow, error)
}

// ProductStats reads catalog counters.
type ProductStats interface {
	Stats(ctx context.Context) (dbgen.CountProductStatsRow, error)
}

// Range is a half-open interval [From, To) of whole UTC days.
type Range struct {
	From time.Time
	To   time.Time
}

// Overview feeds the dashboard.
type Overview struct {
	TotalProducts int64           `json:"totalProducts"`
	LowStockCount int64           `json:"lowStockCount"`
	TodaySales    int64           `json:"todaySales"`
	TodayRevenue  decimal.Decimal `json:"todayRevenue"`
}

// Service provides cached report reads.
type Service struct {
	Sales       SalesSource
	Products    ProductStats
	R           *redis.Client
	TTL         time.Duration
	DefaultDays int
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// LastDays returns the range covering today and the days-1 days before it.
func (s *Service) LastDays(days int) Range {
	if days <= 0 {
		days = s.DefaultDays
	}
	if days <= 0 {
		days = 7
	}
	today := s.now().Truncate(24 * time.Hour)
	to := today.AddDate(0, 0, 1)
	return Range{From: to.AddDate(0, 0, -days), To: to}
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

func rangeKey(report string, rng Range) string {
	return cacheKey("report", report, rng.From.Format("2006-01-02"), rng.To.Format("2006-01-02"))
}

// Daily returns daily summaries for rng.
func (s *Service) Daily(ctx context.Context, rng Range) ([]DailySummary, error) {
	var out []DailySummary
	err := s.cached(ctx, "daily", rangeKey("daily", rng), &out, func() (any, error) {
		records, err := s.Sales.InRange(ctx, rng.From, rng.To)
		if err != nil {
			return nil, err
		}
		out = AggregateDaily(records)
		return out, nil
	})
	return out, err
}

// ByProduct returns per-product summaries for rng.
func (s *Service) ByProduct(ctx context.Context, rng Range) ([]ProductSummary, error) {
	var out []ProductSummary
	err := s.cached(ctx, "products", rangeKey("products", rng), &out, func() (any, error) {
		records, err := s.Sales.InRange(ctx, rng.From, rng.To)
		if err != nil {
			return nil, err
		}
		out = AggregateByProduct(records)
		return out, nil
	})
	return out, err
}

// Overview returns catalog counters and today's sales.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	today := s.now().Truncate(24 * time.Hour)
	var out Overview
	err := s.cached(ctx, "overview", cacheKey("report", "overview", today.Format("2006-01-02")), &out, func() (any, error) {
		stats, err := s.Products.Stats(ctx)
		if err != nil {
			return nil, err
		}
		sales, err := s.Sales.StatsSince(ctx, today)
		if err != nil {
			return nil, err
		}
		out = Overview{
			TotalProducts: stats.TotalProducts,
			LowStockCount: stats.LowStock,
			TodaySales:    sales.SaleCount,
			TodayRevenue:  sales.Revenue,
		}
		return out, nil
	})
	return out, err
}

// cached serves dst from the account's cache or fills it with load.
func (s *Service) cached(ctx context.Context, report, key string, dst any, load func() (any, error)) error {
	accountID, ok := tenant.AccountID(ctx)
	if !ok {
		return ErrAccountRequired
	}
	key = tenant.PrefixKey(accountID, key)
	if s.R != nil && s.TTL > 0 {
		if data, err := s.R.Get(ctx, key).Bytes(); err == nil {
			if json.Unmarshal(data, dst) == nil {
				recordCache(report, "hit")
				return nil
			}
		}
	}
	recordCache(report, "miss")
	value, err := load()
	if err != nil {
		return err
	}
	s.store(ctx, key, value)
	return nil
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}

// Invalidate drops every cached report of the account.
func (s *Service) Invalidate(ctx context.Context, accountID string) (int, error) {
	if s.R == nil || strings.TrimSpace(accountID) == "" {
		return 0, nil
	}
	pattern := tenant.PrefixKey(accountID, "report:*")
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := s.R.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := s.R.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func recordCache(report, result string) {
	if obs.ReportCacheTotal != nil {
		obs.ReportCacheTotal.WithLabelValues(report, result).Inc()
	}
}
