package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/repo"
)

// DefaultLowStockThreshold applies to products without their own threshold.
const DefaultLowStockThreshold = 10

// PresetCategories are offered when creating products.
var PresetCategories = []string{
	"Electronics",
	"Clothing",
	"Home & Kitchen",
	"Books",
	"Beauty & Personal Care",
	"Toys & Games",
	"Sports & Outdoors",
	"Automotive",
	"Health & Wellness",
	"Food & Grocery",
	"Office Supplies",
	"Jewelry",
	"Furniture",
	"Pet Supplies",
	"Garden & Outdoor",
	"Baby Products",
	"Tools & Hardware",
	"Music & Movies",
	"Other",
}

// Product is the public product payload.
type Product struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	SKU               *string          `json:"sku"`
	Category          *string          `json:"category"`
	Supplier          *string          `json:"supplier"`
	Quantity          int              `json:"quantity"`
	PurchasePrice     decimal.Decimal  `json:"purchasePrice"`
	SellingPrice      decimal.Decimal  `json:"sellingPrice"`
	GST               *decimal.Decimal `json:"gst"`
	LowStockThreshold int              `json:"lowStockThreshold"`
	LowStock          bool             `json:"lowStock"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// FromRow converts a product row.
func FromRow(row dbgen.Product) Product {
	threshold := DefaultLowStockThreshold
	if row.LowStockThreshold.Valid {
		threshold = int(row.LowStockThreshold.Int32)
	}
	p := Product{
		ID:                repo.UUIDString(row.ID),
		Name:              row.Name,
		Quantity:          int(row.Quantity),
		PurchasePrice:     row.PurchasePrice,
		SellingPrice:      row.SellingPrice,
		GST:               repo.DecimalPtr(row.Gst),
		LowStockThreshold: threshold,
		LowStock:          int(row.Quantity) <= threshold,
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}
	if row.Sku.Valid {
		p.SKU = &row.Sku.String
	}
	if row.Category.Valid {
		p.Category = &row.Category.String
	}
	if row.Supplier.Valid {
		p.Supplier = &row.Supplier.String
	}
	return p
}

func fromRows(rows []dbgen.Product) []Product {
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out
}
