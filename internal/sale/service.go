package sale

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-inventory/internal/cart"
	"github.com/noah-isme/backend-inventory/internal/common"
	"github.com/noah-isme/backend-inventory/internal/events"
	"github.com/noah-isme/backend-inventory/internal/lock"
	"github.com/noah-isme/backend-inventory/internal/obs"
	"github.com/noah-isme/backend-inventory/internal/pricing"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

// DefaultWalkInLabel is stored as the customer name when none is given.
const DefaultWalkInLabel = "Walk-in Customer"

// Carts hands out a cart under its mutation lock and empties it once fn
// succeeds.
type Carts interface {
	Checkout(ctx context.Context, cartID string, fn func(context.Context, *cart.Cart) error) (*cart.Cart, error)
}

// Writer persists sale rows in one statement.
type Writer interface {
	Insert(ctx context.Context, rows []repo.SaleRow, withCustomer bool) error
}

// Reader lists persisted sales.
type Reader interface {
	Count(ctx context.Context) (int64, error)
	Page(ctx context.Context, limit, offset int32) ([]repo.SaleRecord, error)
}

// TryLocker runs fn only when the key is free.
type TryLocker interface {
	TryWithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Emitter publishes domain events.
type Emitter interface {
	Emit(ctx context.Context, topic, accountID string, payload any) (events.Event, error)
}

// Service submits carts as sales.
type Service struct {
	Carts       Carts
	Policies    cart.PolicySource
	Writer      Writer
	Reader      Reader
	Locker      TryLocker
	LockTTL     time.Duration
	Events      Emitter
	WalkInLabel string
	Logger      *zerolog.Logger
	Now         func() time.Time
}

var nopLogger = zerolog.Nop()

func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	if s.Logger != nil {
		return s.Logger
	}
	return &nopLogger
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SubmitKey is the lock key guarding submission of a cart.
func SubmitKey(accountID, cartID string) string {
	return tenant.PrefixKey(accountID, "lock:submit:"+cartID)
}

// Submit persists one sale row per cart line and clears the cart. The tax
// policy is read from its source right before the rows are built.
func (s *Service) Submit(ctx context.Context, cartID string, customer Customer) (Result, error) {
	accountID, ok := tenant.AccountID(ctx)
	if !ok {
		return Result{}, cart.ErrAccountRequired
	}
	start := s.now()
	var result Result
	run := func(ctx context.Context) error {
		var err error
		result, err = s.submit(ctx, accountID, cartID, customer)
		return err
	}
	var err error
	if s.Locker != nil {
		err = s.Locker.TryWithLock(ctx, SubmitKey(accountID, cartID), s.LockTTL, run)
		if errors.Is(err, lock.ErrHeld) {
			err = ErrSubmissionInProgress
		}
	} else {
		err = run(ctx)
	}
	recordSubmission(result, err, s.now().Sub(start))
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func (s *Service) submit(ctx context.Context, accountID, cartID string, customer Customer) (Result, error) {
	var (
		result     Result
		recorded   bool
		lines      int
		productIDs []string
	)
	userID, _ := common.UserID(ctx)
	_, err := s.Carts.Checkout(ctx, cartID, func(ctx context.Context, c *cart.Cart) error {
		if c.IsEmpty() {
			return ErrEmptyCart
		}
		for _, l := range c.Lines {
			if l.Quantity > l.Product.Available {
				return &cart.StockError{
					ProductID: l.Product.ID,
					Name:      l.Product.Name,
					Requested: l.Quantity,
					Available: l.Product.Available,
					InCart:    l.Quantity,
				}
			}
		}
		policy, err := s.Policies.CurrentPolicy(ctx)
		if err != nil {
			return err
		}
		rows := BuildRows(c, policy, userID, customer, s.walkInLabel())
		result, err = s.insert(ctx, cartID, rows)
		if err != nil {
			return err
		}
		recorded = true
		lines = len(c.Lines)
		productIDs = c.ProductIDs()
		return nil
	})
	switch {
	case err != nil && recorded:
		s.logger(ctx).Warn().Err(err).Str("cart_id", cartID).Msg("clear cart after sale")
	case err != nil:
		return Result{}, err
	}
	s.emit(ctx, accountID, cartID, userID, lines, productIDs, result.Partial)
	return result, nil
}

// insert writes rows, retrying once without the optional customer columns
// when the store does not know them.
func (s *Service) insert(ctx context.Context, cartID string, rows []repo.SaleRow) (Result, error) {
	result := Result{Inserted: len(rows), DroppedFields: []string{}}
	err := s.Writer.Insert(ctx, rows, true)
	if errors.Is(err, repo.ErrUnknownColumn) {
		s.logger(ctx).Warn().Err(err).Str("cart_id", cartID).Msg("retrying sale insert without customer fields")
		if retryErr := s.Writer.Insert(ctx, rows, false); retryErr != nil {
			recordFallback("failed")
			s.logger(ctx).Error().Err(retryErr).Str("cart_id", cartID).Msg("sale insert failed without customer fields")
			return Result{}, ErrSchemaIncompatible
		}
		recordFallback("recovered")
		result.Partial = true
		result.DroppedFields = []string{FieldCustomerName, FieldCustomerPhone}
		result.Warning = partialWarning
		err = nil
	}
	if err != nil {
		return Result{}, &PersistenceError{Err: err}
	}
	return result, nil
}

// BuildRows prices every line under policy and produces the rows to insert.
// A blank customer name becomes walkIn; a blank phone stays unset.
func BuildRows(c *cart.Cart, policy pricing.Policy, userID string, customer Customer, walkIn string) []repo.SaleRow {
	name := strings.TrimSpace(customer.Name)
	if name == "" {
		name = walkIn
	}
	phone := strings.TrimSpace(customer.Phone)
	rows := make([]repo.SaleRow, 0, len(c.Lines))
	for _, l := range c.Lines {
		unit := l.UnitPrice()
		priced := pricing.ComputeLine(unit, l.Quantity, policy.ForProduct(l.Product.GSTRate))
		tax := priced.Tax
		rows = append(rows, repo.SaleRow{
			ProductID:     l.Product.ID,
			UserID:        userID,
			Quantity:      int32(l.Quantity),
			UnitPrice:     unit,
			TotalPrice:    priced.Total,
			GSTAmount:     &tax,
			CustomerName:  name,
			CustomerPhone: phone,
		})
	}
	return rows
}

func (s *Service) walkInLabel() string {
	if label := strings.TrimSpace(s.WalkInLabel); label != "" {
		return label
	}
	return DefaultWalkInLabel
}

func (s *Service) emit(ctx context.Context, accountID, cartID, userID string, lines int, productIDs []string, partial bool) {
	if s.Events == nil {
		return
	}
	payload := events.SaleRecorded{
		CartID:     cartID,
		UserID:     userID,
		Lines:      lines,
		ProductIDs: productIDs,
		Partial:    partial,
	}
	if _, err := s.Events.Emit(ctx, events.TopicSaleRecorded, accountID, payload); err != nil {
		s.logger(ctx).Warn().Err(err).Str("cart_id", cartID).Msg("emit sale recorded")
	}
}

// Page lists sales newest first. A page outside the available range serves
// the first page.
func (s *Service) Page(ctx context.Context, page, pageSize int) ([]Record, common.Pagination, error) {
	total, err := s.Reader.Count(ctx)
	if err != nil {
		return nil, common.Pagination{}, err
	}
	pager := common.NewPager(pageSize, int(total))
	pager.Goto(page)
	records, err := s.Reader.Page(ctx, int32(pager.Limit()), int32(pager.Offset()))
	if err != nil {
		return nil, common.Pagination{}, err
	}
	return records, pager.Meta(), nil
}

func recordSubmission(result Result, err error, elapsed time.Duration) {
	if obs.SaleSubmissionsTotal == nil {
		return
	}
	outcome := "ok"
	var persistErr *PersistenceError
	switch {
	case err == nil && result.Partial:
		outcome = "partial"
	case err == nil:
	case errors.Is(err, ErrEmptyCart):
		outcome = "empty"
	case errors.Is(err, ErrSubmissionInProgress):
		outcome = "in_progress"
	case errors.Is(err, ErrSchemaIncompatible):
		outcome = "schema_incompatible"
	case errors.Is(err, cart.ErrOutOfStock):
		outcome = "out_of_stock"
	case errors.As(err, &persistErr):
		outcome = "persistence_error"
	default:
		outcome = "error"
	}
	obs.SaleSubmissionsTotal.WithLabelValues(outcome).Inc()
	if err == nil && obs.SaleLinesTotal != nil {
		obs.SaleLinesTotal.Add(float64(result.Inserted))
	}
	if obs.SubmitDuration != nil {
		obs.SubmitDuration.Observe(float64(elapsed.Milliseconds()))
	}
}

func recordFallback(result string) {
	if obs.SchemaFallbackTotal != nil {
		obs.SchemaFallbackTotal.WithLabelValues(result).Inc()
	}
}
