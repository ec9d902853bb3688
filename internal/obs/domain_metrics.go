package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartMutationsTotal counts cart operations by kind and outcome.
	CartMutationsTotal *prometheus.CounterVec
	// SaleSubmissionsTotal counts sale submissions by outcome.
	SaleSubmissionsTotal *prometheus.CounterVec
	// SaleLinesTotal counts persisted sale rows.
	SaleLinesTotal prometheus.Counter
	// SchemaFallbackTotal counts retries without optional columns, labelled by
	// the rule that detected the missing column.
	SchemaFallbackTotal *prometheus.CounterVec
	// ReportCacheTotal counts report cache lookups by result.
	ReportCacheTotal *prometheus.CounterVec
	// SubmitDuration records the sale submission latency in milliseconds.
	SubmitDuration prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of cart mutations by operation and outcome.",
		}, []string{"op", "result"})
		SaleSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_submissions_total",
			Help:      "Count of sale submissions by outcome.",
		}, []string{"result"})
		SaleLinesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_lines_total",
			Help:      "Number of sale rows persisted.",
		})
		SchemaFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_schema_fallback_total",
			Help:      "Count of sale inserts retried without optional customer columns.",
		}, []string{"result"})
		ReportCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_total",
			Help:      "Count of report cache lookups by result.",
		}, []string{"report", "result"})
		SubmitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sale_submit_duration_ms",
			Help:      "Latency of sale submissions in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		})

		mustRegisterCollector(reg, CartMutationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartMutationsTotal = v
			}
		})
		mustRegisterCollector(reg, SaleSubmissionsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SaleSubmissionsTotal = v
			}
		})
		mustRegisterCollector(reg, SaleLinesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				SaleLinesTotal = v
			}
		})
		mustRegisterCollector(reg, SchemaFallbackTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SchemaFallbackTotal = v
			}
		})
		mustRegisterCollector(reg, ReportCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ReportCacheTotal = v
			}
		})
		mustRegisterCollector(reg, SubmitDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				SubmitDuration = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
