// Package catalog manages the account's products.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/events"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

// ErrInvalidAmount is returned for negative prices or a GST rate above 100.
var ErrInvalidAmount = errors.New("catalog: amounts must be non-negative and gst at most 100")

// Store is the product persistence used by Service.
type Store interface {
	Search(ctx context.Context, term string) ([]dbgen.Product, error)
	Available(ctx context.Context) ([]dbgen.Product, error)
	LowStock(ctx context.Context) ([]dbgen.Product, error)
	Get(ctx context.Context, id string) (dbgen.Product, error)
	Create(ctx context.Context, f repo.ProductFields) (dbgen.Product, error)
	Update(ctx context.Context, id string, f repo.ProductFields) (dbgen.Product, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, rows []repo.ProductFields) (int, error)
}

// Emitter publishes domain events.
type Emitter interface {
	Emit(ctx context.Context, topic, accountID string, payload any) (events.Event, error)
}

// Service validates product input and applies it to the store.
type Service struct {
	store    Store
	events   Emitter
	validate *validator.Validate
	logger   zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store  Store
	Events Emitter
	Logger zerolog.Logger
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	return &Service{store: cfg.Store, events: cfg.Events, validate: validator.New(), logger: cfg.Logger}, nil
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Name              string           `json:"name" validate:"required,max=200"`
	SKU               string           `json:"sku" validate:"max=64"`
	Category          string           `json:"category" validate:"max=100"`
	Supplier          string           `json:"supplier" validate:"max=200"`
	Quantity          int              `json:"quantity" validate:"gte=0"`
	PurchasePrice     decimal.Decimal  `json:"purchasePrice"`
	SellingPrice      decimal.Decimal  `json:"sellingPrice"`
	GST               *decimal.Decimal `json:"gst"`
	LowStockThreshold *int             `json:"lowStockThreshold" validate:"omitempty,gte=0"`
}

// ImportRow is one parsed row of an uploaded sheet. Missing numbers default
// to zero and a missing threshold to DefaultLowStockThreshold.
type ImportRow struct {
	Name              string           `json:"name"`
	SKU               string           `json:"sku"`
	Category          string           `json:"category"`
	Supplier          string           `json:"supplier"`
	Quantity          *int             `json:"quantity"`
	PurchasePrice     *decimal.Decimal `json:"purchasePrice"`
	SellingPrice      *decimal.Decimal `json:"sellingPrice"`
	GST               *decimal.Decimal `json:"gst"`
	LowStockThreshold *int             `json:"lowStockThreshold"`
}

// ImportResult reports how many rows were stored and skipped.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

func (in ProductInput) normalize() ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Category = strings.TrimSpace(in.Category)
	in.Supplier = strings.TrimSpace(in.Supplier)
	return in
}

func (in ProductInput) fields() repo.ProductFields {
	f := repo.ProductFields{
		Name:          in.Name,
		SKU:           in.SKU,
		Category:      in.Category,
		Supplier:      in.Supplier,
		Quantity:      int32(in.Quantity),
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
		GST:           in.GST,
	}
	if in.LowStockThreshold != nil {
		t := int32(*in.LowStockThreshold)
		f.LowStockThreshold = &t
	}
	return f
}

func (s *Service) check(in ProductInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	if in.PurchasePrice.IsNegative() || in.SellingPrice.IsNegative() {
		return ErrInvalidAmount
	}
	if in.GST != nil && (in.GST.IsNegative() || in.GST.GreaterThan(decimal.NewFromInt(100))) {
		return ErrInvalidAmount
	}
	return nil
}

// Search lists products matching term, newest first. An empty term lists all.
func (s *Service) Search(ctx context.Context, term string) ([]Product, error) {
	rows, err := s.store.Search(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// Available lists products that can be sold.
func (s *Service) Available(ctx context.Context) ([]Product, error) {
	rows, err := s.store.Available(ctx)
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// LowStock lists products at or below their threshold.
func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	rows, err := s.store.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	row, err := s.store.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return FromRow(row), nil
}

// Create validates and inserts a product.
func (s *Service) Create(ctx context.Context, in ProductInput) (Product, error) {
	in = in.normalize()
	if err := s.check(in); err != nil {
		return Product{}, err
	}
	row, err := s.store.Create(ctx, in.fields())
	if err != nil {
		return Product{}, err
	}
	p := FromRow(row)
	s.changed(ctx, "created", p.ID)
	return p, nil
}

// Update validates and overwrites a product.
func (s *Service) Update(ctx context.Context, id string, in ProductInput) (Product, error) {
	in = in.normalize()
	if err := s.check(in); err != nil {
		return Product{}, err
	}
	row, err := s.store.Update(ctx, id, in.fields())
	if err != nil {
		return Product{}, err
	}
	p := FromRow(row)
	s.changed(ctx, "updated", p.ID)
	return p, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, "deleted", id)
	return nil
}

// Import stores every row with a name in one transaction. Rows without a
// name are skipped; any invalid named row rejects the whole batch.
func (s *Service) Import(ctx context.Context, rows []ImportRow) (ImportResult, error) {
	var (
		fields []repo.ProductFields
		result ImportResult
	)
	for _, row := range rows {
		in := row.input().normalize()
		if in.Name == "" {
			result.Skipped++
			continue
		}
		if err := s.check(in); err != nil {
			return ImportResult{}, err
		}
		fields = append(fields, in.fields())
	}
	if len(fields) == 0 {
		return result, nil
	}
	n, err := s.store.Import(ctx, fields)
	if err != nil {
		return ImportResult{}, err
	}
	result.Inserted = n
	s.changed(ctx, "imported")
	return result, nil
}

func (r ImportRow) input() ProductInput {
	in := ProductInput{
		Name:          r.Name,
		SKU:           r.SKU,
		Category:      r.Category,
		Supplier:      r.Supplier,
		PurchasePrice: decimal.Zero,
		SellingPrice:  decimal.Zero,
		GST:           r.GST,
	}
	if r.Quantity != nil {
		in.Quantity = *r.Quantity
	}
	if r.PurchasePrice != nil {
		in.PurchasePrice = *r.PurchasePrice
	}
	if r.SellingPrice != nil {
		in.SellingPrice = *r.SellingPrice
	}
	threshold := DefaultLowStockThreshold
	if r.LowStockThreshold != nil {
		threshold = *r.LowStockThreshold
	}
	in.LowStockThreshold = &threshold
	return in
}

func (s *Service) changed(ctx context.Context, action string, ids ...string) {
	if s.events == nil {
		return
	}
	accountID, ok := tenant.AccountID(ctx)
	if !ok {
		return
	}
	if _, err := s.events.Emit(ctx, events.TopicCatalogChanged, accountID, events.CatalogChanged{Action: action, ProductIDs: ids}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("emit catalog changed")
	}
}
