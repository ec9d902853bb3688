// Package tasks defines the background jobs run by cmd/worker and the event
// notifier that enqueues them.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-inventory/internal/events"
)

// Task types.
const (
	TypeReportInvalidate = "report:invalidate"
	TypeLowStockCheck    = "stock:low-check"
)

// Queue names and their priorities for the worker server.
const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// Queues returns the queue priority map used by the worker server.
func Queues() map[string]int {
	return map[string]int{QueueDefault: 6, QueueLow: 2}
}

// ReportInvalidatePayload drops the cached reports of an account.
type ReportInvalidatePayload struct {
	AccountID string `json:"accountId"`
}

// LowStockPayload asks for a stock check of recently sold products.
type LowStockPayload struct {
	AccountID  string   `json:"accountId"`
	ProductIDs []string `json:"productIds"`
}

// NewReportInvalidateTask builds a report cache invalidation task.
func NewReportInvalidateTask(accountID string) (*asynq.Task, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, errors.New("tasks: account id is required")
	}
	payload, err := json.Marshal(ReportInvalidatePayload{AccountID: accountID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReportInvalidate, payload), nil
}

// NewLowStockTask builds a low stock check task.
func NewLowStockTask(accountID string, productIDs []string) (*asynq.Task, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, errors.New("tasks: account id is required")
	}
	payload, err := json.Marshal(LowStockPayload{AccountID: accountID, ProductIDs: productIDs})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeLowStockCheck, payload), nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier turns domain events into background jobs.
type Notifier struct {
	Client Enqueuer
	// UniqueFor collapses repeated invalidations of one account within the window.
	UniqueFor time.Duration
	MaxRetry  int
	Logger    zerolog.Logger
}

// Notify implements events.Notifier.
func (n Notifier) Notify(ctx context.Context, ev events.Event) error {
	if n.Client == nil {
		return errors.New("tasks: client not configured")
	}
	switch ev.Topic {
	case events.TopicSaleRecorded:
		var payload events.SaleRecorded
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return fmt.Errorf("tasks: decode %s: %w", ev.Topic, err)
		}
		return errors.Join(n.invalidate(ctx, ev.AccountID), n.lowStock(ctx, ev.AccountID, payload.ProductIDs))
	case events.TopicCatalogChanged:
		return n.invalidate(ctx, ev.AccountID)
	default:
		return nil
	}
}

func (n Notifier) invalidate(ctx context.Context, accountID string) error {
	task, err := NewReportInvalidateTask(accountID)
	if err != nil {
		return err
	}
	opts := []asynq.Option{asynq.Queue(QueueDefault), asynq.MaxRetry(n.maxRetry())}
	if n.UniqueFor > 0 {
		opts = append(opts, asynq.Unique(n.UniqueFor))
	}
	return n.enqueue(ctx, task, opts...)
}

func (n Notifier) lowStock(ctx context.Context, accountID string, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	task, err := NewLowStockTask(accountID, productIDs)
	if err != nil {
		return err
	}
	return n.enqueue(ctx, task, asynq.Queue(QueueLow), asynq.MaxRetry(n.maxRetry()))
}

func (n Notifier) enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) error {
	info, err := n.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tasks: enqueue %s: %w", task.Type(), err)
	}
	if info != nil {
		n.Logger.Debug().Str("task_id", info.ID).Str("type", task.Type()).Msg("task enqueued")
	}
	return nil
}

func (n Notifier) maxRetry() int {
	if n.MaxRetry > 0 {
		return n.MaxRetry
	}
	return 5
}
