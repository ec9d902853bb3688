// Package tenantservices bridges account-scoped repositories to the
// domain interfaces consumed by the cart and sale services.
package tenantservices

import (
	"context"
	"errors"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/cart"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

// ProductReader loads account products by id.
type ProductReader interface {
	GetMany(ctx context.Context, ids []string) ([]dbgen.Product, error)
}

// CartCatalog serves current product snapshots to carts.
type CartCatalog struct{ R ProductReader }

// Lookup returns the products found among ids keyed by id. Unknown ids are
// absent from the result.
func (c CartCatalog) Lookup(ctx context.Context, ids []string) (map[string]cart.Product, error) {
	if _, ok := tenant.AccountID(ctx); !ok {
		return nil, errors.New("tenant missing")
	}
	out := make(map[string]cart.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := c.R.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		p := ToCartProduct(row)
		out[p.ID] = p
	}
	return out, nil
}

// ToCartProduct converts a catalog row into the snapshot a cart line carries.
func ToCartProduct(row dbgen.Product) cart.Product {
	return cart.Product{
		ID:           repo.UUIDString(row.ID),
		Name:         row.Name,
		SellingPrice: row.SellingPrice,
		GSTRate:      repo.DecimalPtr(row.Gst),
		Available:    int(row.Quantity),
	}
}
