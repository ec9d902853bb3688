package main

import (
	"testing"

	"github.com/noah-isme/backend-inventory/internal/catalog"
)

func TestDemoCatalog(t *testing.T) {
	rows := demoCatalog(2)
	if want := len(catalog.PresetCategories) * 2; len(rows) != want {
		t.Fatalf("expected %d rows, got %d", want, len(rows))
	}
	seen := map[string]bool{}
	for _, row := range rows {
		if row.Name == "" {
			t.Fatalf("row without name: %+v", row)
		}
		if !row.SellingPrice.GreaterThan(row.PurchasePrice) {
			t.Fatalf("%s sells at or below cost", row.Name)
		}
		if seen[row.SKU] {
			t.Fatalf("duplicate sku %s", row.SKU)
		}
		seen[row.SKU] = true
	}
}
