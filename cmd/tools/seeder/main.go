// Command seeder loads a demo catalog into an existing account.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-inventory/internal/catalog"
	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

func main() {
	account := flag.String("account", "", "account id to seed (defaults to SEED_ACCOUNT_ID)")
	perCategory := flag.Int("per-category", 3, "products per preset category")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("component", "seeder").Logger()

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}
	accountID := strings.TrimSpace(*account)
	if accountID == "" {
		accountID = strings.TrimSpace(os.Getenv("SEED_ACCOUNT_ID"))
	}
	if accountID == "" {
		logger.Fatal().Msg("account id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	products := repo.ProductsRepo{Q: dbgen.New(pool), DB: pool}
	inserted, err := products.Import(tenant.WithAccount(ctx, accountID), demoCatalog(*perCategory))
	if err != nil {
		logger.Fatal().Err(err).Msg("seed products")
	}
	logger.Info().Str("account_id", accountID).Int("inserted", inserted).Msg("seeding completed")
}

func demoCatalog(perCategory int) []repo.ProductFields {
	if perCategory <= 0 {
		perCategory = 1
	}
	gstRates := []decimal.Decimal{decimal.NewFromInt(5), decimal.NewFromInt(12), decimal.NewFromInt(18)}
	rows := make([]repo.ProductFields, 0, len(catalog.PresetCategories)*perCategory)
	for ci, category := range catalog.PresetCategories {
		for i := 1; i <= perCategory; i++ {
			cost := decimal.NewFromInt(int64(50 * (ci + i)))
			rate := gstRates[(ci+i)%len(gstRates)]
			rows = append(rows, repo.ProductFields{
				Name:          fmt.Sprintf("%s Item %d", category, i),
				SKU:           fmt.Sprintf("DEMO-%02d-%02d", ci+1, i),
				Category:      category,
				Supplier:      "Demo Supplier",
				Quantity:      int32(5 * i),
				PurchasePrice: cost,
				SellingPrice:  cost.Mul(decimal.NewFromFloat(1.3)).Round(2),
				GST:           &rate,
			})
		}
	}
	return rows
}
