package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

type productsStub struct {
	repo.ProductsQuerier
	searchParams dbgen.ListProductsByAccountParams
	getParams    dbgen.GetProductByAccountParams
	deleted      int64
}

func (p *productsStub) ListProductsByAccount(ctx context.Context, arg dbgen.ListProductsByAccountParams) ([]dbgen.Product, error) {
	p.searchParams = arg
	return []dbgen.Product{{Name: "Rice"}}, nil
}

func (p *productsStub) GetProductByAccount(ctx context.Context, arg dbgen.GetProductByAccountParams) (dbgen.Product, error) {
	p.getParams = arg
	return dbgen.Product{}, pgx.ErrNoRows
}

func (p *productsStub) DeleteProduct(ctx context.Context, arg dbgen.DeleteProductParams) (int64, error) {
	return p.deleted, nil
}

func accountCtx(t *testing.T) (context.Context, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	return tenant.WithAccount(context.Background(), id.String()), id
}

func TestProductsRepoRequiresAccount(t *testing.T) {
	r := repo.ProductsRepo{Q: &productsStub{}}
	_, err := r.Search(context.Background(), "")
	require.ErrorIs(t, err, repo.ErrAccountMissing)

	ctx := tenant.WithAccount(context.Background(), "not-a-uuid")
	_, err = r.Search(ctx, "")
	require.ErrorIs(t, err, repo.ErrAccountInvalid)
}

func TestProductsRepoScopesAndTrims(t *testing.T) {
	stub := &productsStub{}
	r := repo.ProductsRepo{Q: stub}
	ctx, aid := accountCtx(t)

	rows, err := r.Search(ctx, "  rice ")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, aid, uuid.UUID(stub.searchParams.AccountID.Bytes))
	require.Equal(t, "rice", stub.searchParams.Search)
}

func TestProductsRepoNotFound(t *testing.T) {
	stub := &productsStub{}
	r := repo.ProductsRepo{Q: stub}
	ctx, _ := accountCtx(t)

	_, err := r.Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, repo.ErrNotFound)

	_, err = r.Get(ctx, "garbage")
	require.ErrorIs(t, err, repo.ErrNotFound)

	require.ErrorIs(t, r.Delete(ctx, uuid.NewString()), repo.ErrNotFound)
	stub.deleted = 1
	require.NoError(t, r.Delete(ctx, uuid.NewString()))
}

type salesStub struct {
	repo.SalesQuerier
	fullErr    error
	basicCalls int
}

func (s *salesStub) ListSalesPage(ctx context.Context, arg dbgen.ListSalesPageParams) ([]dbgen.ListSalesPageRow, error) {
	if s.fullErr != nil {
		return nil, s.fullErr
	}
	return []dbgen.ListSalesPageRow{{
		ID:           pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(100),
		TotalPrice:   decimal.NewFromInt(236),
		CustomerName: pgtype.Text{String: "Walk-in Customer", Valid: true},
		ProductName:  pgtype.Text{String: "Rice", Valid: true},
	}}, nil
}

func (s *salesStub) ListSalesPageBasic(ctx context.Context, arg dbgen.ListSalesPageBasicParams) ([]dbgen.ListSalesPageBasicRow, error) {
	s.basicCalls++
	return []dbgen.ListSalesPageBasicRow{{Quantity: 1, TotalPrice: decimal.NewFromInt(50)}}, nil
}

func (s *salesStub) SalesColumnExists(ctx context.Context, columnName string) (bool, error) {
	return columnName == "customer_name", nil
}

func TestSalesRepoPage(t *testing.T) {
	ctx, _ := accountCtx(t)
	stub := &salesStub{}
	r := repo.SalesRepo{Q: stub}

	rows, err := r.Page(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Rice", rows[0].ProductName)
	require.NotNil(t, rows[0].CustomerName)
	require.Equal(t, "Walk-in Customer", *rows[0].CustomerName)
	require.Zero(t, stub.basicCalls)
}

func TestSalesRepoPageFallsBackWithoutCustomerColumns(t *testing.T) {
	ctx, _ := accountCtx(t)
	stub := &salesStub{fullErr: &pgconn.PgError{Code: "42703", Message: `column s.customer_name does not exist`}}
	r := repo.SalesRepo{Q: stub}

	rows, err := r.Page(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Unknown Product", rows[0].ProductName)
	require.Nil(t, rows[0].CustomerName)
	require.Equal(t, 1, stub.basicCalls)
}

func TestSalesRepoCustomerColumns(t *testing.T) {
	r := repo.SalesRepo{Q: &salesStub{}}
	ok, err := r.CustomerColumns(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSalesRepoInsertEmptyIsNoop(t *testing.T) {
	r := repo.SalesRepo{}
	require.NoError(t, r.Insert(context.Background(), nil, true))
}

type profilesStub struct {
	repo.ProfilesQuerier
	profile dbgen.Profile
	err     error
}

func (p profilesStub) GetProfile(ctx context.Context, id pgtype.UUID) (dbgen.Profile, error) {
	return p.profile, p.err
}

func TestProfilesRepoMembership(t *testing.T) {
	uid, aid := uuid.New(), uuid.New()
	r := repo.ProfilesRepo{Q: profilesStub{profile: dbgen.Profile{
		ID:        pgtype.UUID{Bytes: uid, Valid: true},
		AccountID: pgtype.UUID{Bytes: aid, Valid: true},
		Email:     "owner@example.com",
		Role:      "owner",
	}}}
	m, err := r.MembershipFor(context.Background(), uid.String())
	require.NoError(t, err)
	require.Equal(t, aid.String(), m.AccountID)
	require.True(t, m.IsOwner())

	r = repo.ProfilesRepo{Q: profilesStub{err: pgx.ErrNoRows}}
	_, err = r.MembershipFor(context.Background(), uid.String())
	require.ErrorIs(t, err, tenant.ErrNoProfile)
}
