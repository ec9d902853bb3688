//go:build integration

package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/db/migrations"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("inventory_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migrations.New(dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(m))
	_, _ = m.Close()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedAccount(t *testing.T, pool *pgxpool.Pool) context.Context {
	t.Helper()
	var accountID string
	err := pool.QueryRow(context.Background(), `INSERT INTO accounts (name) VALUES ('Corner Shop') RETURNING id::text`).Scan(&accountID)
	require.NoError(t, err)
	return tenant.WithAccount(context.Background(), accountID)
}

func TestSalesInsertDecrementsStock(t *testing.T) {
	pool := startPostgres(t)
	ctx := seedAccount(t, pool)
	q := dbgen.New(pool)
	products := repo.ProductsRepo{Q: q, DB: pool}
	sales := repo.SalesRepo{Q: q, DB: pool}

	p, err := products.Create(ctx, repo.ProductFields{Name: "Rice", Quantity: 5, SellingPrice: decimal.NewFromInt(100)})
	require.NoError(t, err)
	pid := repo.UUIDString(p.ID)

	err = sales.Insert(ctx, []repo.SaleRow{{
		ProductID:    pid,
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(100),
		TotalPrice:   decimal.NewFromInt(236),
		CustomerName: "Walk-in Customer",
	}}, true)
	require.NoError(t, err)

	got, err := products.Get(ctx, pid)
	require.NoError(t, err)
	require.EqualValues(t, 3, got.Quantity)

	rows, err := sales.Page(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Rice", rows[0].ProductName)
	require.True(t, decimal.NewFromInt(236).Equal(rows[0].TotalPrice))
}

func TestSalesInsertOversellRollsBackEveryRow(t *testing.T) {
	pool := startPostgres(t)
	ctx := seedAccount(t, pool)
	q := dbgen.New(pool)
	products := repo.ProductsRepo{Q: q, DB: pool}
	sales := repo.SalesRepo{Q: q, DB: pool}

	a, err := products.Create(ctx, repo.ProductFields{Name: "A", Quantity: 5, SellingPrice: decimal.NewFromInt(10)})
	require.NoError(t, err)
	b, err := products.Create(ctx, repo.ProductFields{Name: "B", Quantity: 1, SellingPrice: decimal.NewFromInt(10)})
	require.NoError(t, err)

	err = sales.Insert(ctx, []repo.SaleRow{
		{ProductID: repo.UUIDString(a.ID), Quantity: 2, UnitPrice: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(20)},
		{ProductID: repo.UUIDString(b.ID), Quantity: 3, UnitPrice: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(30)},
	}, false)
	require.Error(t, err)
	require.NotErrorIs(t, err, repo.ErrUnknownColumn)

	count, err := sales.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
	got, err := products.Get(ctx, repo.UUIDString(a.ID))
	require.NoError(t, err)
	require.EqualValues(t, 5, got.Quantity)
}

func TestSalesInsertWithoutCustomerColumns(t *testing.T) {
	pool := startPostgres(t)
	ctx := seedAccount(t, pool)
	_, err := pool.Exec(context.Background(), `ALTER TABLE sales DROP COLUMN customer_name, DROP COLUMN customer_phone`)
	require.NoError(t, err)
	q := dbgen.New(pool)
	products := repo.ProductsRepo{Q: q, DB: pool}
	sales := repo.SalesRepo{Q: q, DB: pool}

	p, err := products.Create(ctx, repo.ProductFields{Name: "Tea", Quantity: 4, SellingPrice: decimal.NewFromInt(20)})
	require.NoError(t, err)
	row := repo.SaleRow{ProductID: repo.UUIDString(p.ID), Quantity: 1, UnitPrice: decimal.NewFromInt(20), TotalPrice: decimal.NewFromInt(20), CustomerName: "Ravi"}

	err = sales.Insert(ctx, []repo.SaleRow{row}, true)
	require.ErrorIs(t, err, repo.ErrUnknownColumn)

	ok, err := sales.CustomerColumns(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, sales.Insert(ctx, []repo.SaleRow{row}, false))
	rows, err := sales.Page(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].CustomerName)
}

func TestProductsImportIsAtomic(t *testing.T) {
	pool := startPostgres(t)
	ctx := seedAccount(t, pool)
	products := repo.ProductsRepo{Q: dbgen.New(pool), DB: pool}

	_, err := products.Import(ctx, []repo.ProductFields{
		{Name: "Ok", Quantity: 1},
		{Name: "Bad", Quantity: -1},
	})
	require.Error(t, err)
	rows, err := products.Search(ctx, "")
	require.NoError(t, err)
	require.Empty(t, rows)

	n, err := products.Import(ctx, []repo.ProductFields{{Name: "One"}, {Name: "Two", SKU: uuid.NewString()}})
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestAccountsOnboardIsIdempotent(t *testing.T) {
	pool := startPostgres(t)
	q := dbgen.New(pool)
	accounts := repo.AccountsRepo{Q: q, DB: pool}
	userID := uuid.NewString()
	seed := repo.AccountSeed{Name: "My Store", Currency: "INR", GSTEnabled: true, DefaultGSTRate: decimal.NewFromInt(18)}

	first, err := accounts.Onboard(context.Background(), userID, "owner@shop.in", seed)
	require.NoError(t, err)
	require.True(t, first.Created)

	again, err := accounts.Onboard(context.Background(), userID, "owner@shop.in", seed)
	require.NoError(t, err)
	require.False(t, again.Created)
	require.Equal(t, first.Account.ID, again.Account.ID)

	m, err := repo.ProfilesRepo{Q: q}.MembershipFor(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, tenant.RoleOwner, m.Role)

	ctx := tenant.WithAccount(context.Background(), m.AccountID)
	row, err := repo.SettingsRepo{Q: q}.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "INR", row.Currency)
}
