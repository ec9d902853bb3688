package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
)

// ProductsQuerier defines the sqlc generated queries used by ProductsRepo.
type ProductsQuerier interface {
	ListProductsByAccount(ctx context.Context, arg dbgen.ListProductsByAccountParams) ([]dbgen.Product, error)
	ListAvailableProducts(ctx context.Context, accountID pgtype.UUID) ([]dbgen.Product, error)
	ListLowStockProducts(ctx context.Context, accountID pgtype.UUID) ([]dbgen.Product, error)
	GetProductByAccount(ctx context.Context, arg dbgen.GetProductByAccountParams) (dbgen.Product, error)
	GetProductsByIDs(ctx context.Context, arg dbgen.GetProductsByIDsParams) ([]dbgen.Product, error)
	CountProductStats(ctx context.Context, accountID pgtype.UUID) (dbgen.CountProductStatsRow, error)
	CreateProduct(ctx context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error)
	UpdateProduct(ctx context.Context, arg dbgen.UpdateProductParams) (dbgen.Product, error)
	DeleteProduct(ctx context.Context, arg dbgen.DeleteProductParams) (int64, error)
}

// ProductFields holds the writable columns of a product.
type ProductFields struct {
	Name              string
	SKU               string
	Category          string
	Supplier          string
	Quantity          int32
	PurchasePrice     decimal.Decimal
	SellingPrice      decimal.Decimal
	GST               *decimal.Decimal
	LowStockThreshold *int32
}

func (f ProductFields) threshold() pgtype.Int4 {
	if f.LowStockThreshold == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *f.LowStockThreshold, Valid: true}
}

func (f ProductFields) createParams(accountID pgtype.UUID) dbgen.CreateProductParams {
	return dbgen.CreateProductParams{
		AccountID:         accountID,
		Name:              strings.TrimSpace(f.Name),
		Sku:               Text(f.SKU),
		Category:          Text(f.Category),
		Quantity:          f.Quantity,
		PurchasePrice:     f.PurchasePrice,
		SellingPrice:      f.SellingPrice,
		Gst:               NullDecimal(f.GST),
		Supplier:          Text(f.Supplier),
		LowStockThreshold: f.threshold(),
	}
}

// ProductsRepo ensures account scoping is applied to product queries.
type ProductsRepo struct {
	Q  ProductsQuerier
	DB TxBeginner
}

// Search lists the account's products matching term on name, SKU or category.
func (r ProductsRepo) Search(ctx context.Context, term string) ([]dbgen.Product, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return r.Q.ListProductsByAccount(ctx, dbgen.ListProductsByAccountParams{
		AccountID: aid,
		Search:    strings.TrimSpace(term),
	})
}

// Available lists products with stock on hand.
func (r ProductsRepo) Available(ctx context.Context) ([]dbgen.Product, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return r.Q.ListAvailableProducts(ctx, aid)
}

// LowStock lists products at or below their low stock threshold.
func (r ProductsRepo) LowStock(ctx context.Context) ([]dbgen.Product, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return r.Q.ListLowStockProducts(ctx, aid)
}

// Get returns a single product.
func (r ProductsRepo) Get(ctx context.Context, id string) (dbgen.Product, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return dbgen.Product{}, err
	}
	pid, err := UUID(id)
	if err != nil {
		return dbgen.Product{}, ErrNotFound
	}
	row, err := r.Q.GetProductByAccount(ctx, dbgen.GetProductByAccountParams{ID: pid, AccountID: aid})
	return row, notFound(err)
}

// GetMany returns the products with the given ids. Unknown ids are skipped.
func (r ProductsRepo) GetMany(ctx context.Context, ids []string) ([]dbgen.Product, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	parsed := make([]pgtype.UUID, 0, len(ids))
	for _, id := range ids {
		pid, err := UUID(id)
		if err != nil {
			continue
		}
		parsed = append(parsed, pid)
	}
	if len(parsed) == 0 {
		return nil, nil
	}
	return r.Q.GetProductsByIDs(ctx, dbgen.GetProductsByIDsParams{AccountID: aid, Ids: parsed})
}

// Stats counts all products and those running low.
func (r ProductsRepo) Stats(ctx context.Context) (dbgen.CountProductStatsRow, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return dbgen.CountProductStatsRow{}, err
	}
	return r.Q.CountProductStats(ctx, aid)
}

// Create inserts a product.
func (r ProductsRepo) Create(ctx context.Context, f ProductFields) (dbgen.Product, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return dbgen.Product{}, err
	}
	return r.Q.CreateProduct(ctx, f.createParams(aid))
}

// Update overwrites the writable columns of a product.
func (r ProductsRepo) Update(ctx context.Context, id string, f ProductFields) (dbgen.Product, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return dbgen.Product{}, err
	}
	pid, err := UUID(id)
	if err != nil {
		return dbgen.Product{}, ErrNotFound
	}
	row, err := r.Q.UpdateProduct(ctx, dbgen.UpdateProductParams{
		ID:                pid,
		AccountID:         aid,
		Name:              strings.TrimSpace(f.Name),
		Sku:               Text(f.SKU),
		Category:          Text(f.Category),
		Quantity:          f.Quantity,
		PurchasePrice:     f.PurchasePrice,
		SellingPrice:      f.SellingPrice,
		Gst:               NullDecimal(f.GST),
		Supplier:          Text(f.Supplier),
		LowStockThreshold: f.threshold(),
	})
	return row, notFound(err)
}

// Delete removes a product. Existing sales keep their rows with a NULL product.
func (r ProductsRepo) Delete(ctx context.Context, id string) error {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return err
	}
	pid, err := UUID(id)
	if err != nil {
		return ErrNotFound
	}
	n, err := r.Q.DeleteProduct(ctx, dbgen.DeleteProductParams{ID: pid, AccountID: aid})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Import inserts all rows in one transaction; either every row lands or none.
func (r ProductsRepo) Import(ctx context.Context, rows []ProductFields) (int, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return 0, err
	}
	if r.DB == nil {
		return 0, fmt.Errorf("repo: import requires a transactional database handle")
	}
	inserted := 0
	err = pgx.BeginFunc(ctx, r.DB, func(tx pgx.Tx) error {
		q := dbgen.New(tx)
		for i, f := range rows {
			if _, err := q.CreateProduct(ctx, f.createParams(aid)); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
