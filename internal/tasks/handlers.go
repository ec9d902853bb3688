package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

// ReportCache drops cached reports.
type ReportCache interface {
	Invalidate(ctx context.Context, accountID string) (int, error)
}

// LowStockReader lists products at or below their threshold.
type LowStockReader interface {
	LowStock(ctx context.Context) ([]dbgen.Product, error)
}

// Alert describes a product that ran low after a sale.
type Alert struct {
	AccountID string
	ProductID string
	Name      string
	Quantity  int32
}

// AlertSink receives low stock alerts.
type AlertSink interface {
	LowStock(ctx context.Context, alert Alert) error
}

// Handlers processes background jobs.
type Handlers struct {
	Reports  ReportCache
	Products LowStockReader
	Alerts   AlertSink
	Logger   zerolog.Logger
}

// Register binds every handler to mux.
func (h Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeReportInvalidate, h.HandleReportInvalidate)
	mux.HandleFunc(TypeLowStockCheck, h.HandleLowStock)
}

// HandleReportInvalidate drops the account's cached reports.
func (h Handlers) HandleReportInvalidate(ctx context.Context, t *asynq.Task) error {
	var payload ReportInvalidatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	removed, err := h.Reports.Invalidate(ctx, payload.AccountID)
	if err != nil {
		return err
	}
	h.Logger.Debug().Str("account_id", payload.AccountID).Int("keys", removed).Msg("report cache invalidated")
	return nil
}

// HandleLowStock raises an alert for each sold product now at or below its threshold.
func (h Handlers) HandleLowStock(ctx context.Context, t *asynq.Task) error {
	var payload LowStockPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if len(payload.ProductIDs) == 0 {
		return nil
	}
	ctx = tenant.WithAccount(ctx, payload.AccountID)
	low, err := h.Products.LowStock(ctx)
	if err != nil {
		return err
	}
	sold := make(map[string]struct{}, len(payload.ProductIDs))
	for _, id := range payload.ProductIDs {
		sold[id] = struct{}{}
	}
	for _, p := range low {
		id := repo.UUIDString(p.ID)
		if _, ok := sold[id]; !ok {
			continue
		}
		alert := Alert{AccountID: payload.AccountID, ProductID: id, Name: p.Name, Quantity: p.Quantity}
		if h.Alerts == nil {
			h.Logger.Warn().Str("account_id", alert.AccountID).Str("product_id", id).Int32("quantity", p.Quantity).Msg("low stock")
			continue
		}
		if err := h.Alerts.LowStock(ctx, alert); err != nil {
			return err
		}
	}
	return nil
}

// LogAlerts writes alerts to the log.
type LogAlerts struct {
	Logger zerolog.Logger
}

// LowStock implements AlertSink.
func (l LogAlerts) LowStock(_ context.Context, alert Alert) error {
	l.Logger.Warn().
		Str("account_id", alert.AccountID).
		Str("product_id", alert.ProductID).
		Str("product", alert.Name).
		Int32("quantity", alert.Quantity).
		Msg("low stock")
	return nil
}
