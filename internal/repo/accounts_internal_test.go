package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
)

type onboardQueries struct {
	profiles map[pgtype.UUID]dbgen.Profile
	accounts map[pgtype.UUID]dbgen.Account
	settings []dbgen.UpsertSettingsParams
}

func newOnboardQueries() *onboardQueries {
	return &onboardQueries{
		profiles: map[pgtype.UUID]dbgen.Profile{},
		accounts: map[pgtype.UUID]dbgen.Account{},
	}
}

func (q *onboardQueries) GetProfile(_ context.Context, id pgtype.UUID) (dbgen.Profile, error) {
	p, ok := q.profiles[id]
	if !ok {
		return dbgen.Profile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (q *onboardQueries) GetAccount(_ context.Context, id pgtype.UUID) (dbgen.Account, error) {
	a, ok := q.accounts[id]
	if !ok {
		return dbgen.Account{}, pgx.ErrNoRows
	}
	return a, nil
}

func (q *onboardQueries) CreateAccount(_ context.Context, name string) (dbgen.Account, error) {
	a := dbgen.Account{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}, Name: name}
	q.accounts[a.ID] = a
	return a, nil
}

func (q *onboardQueries) CreateProfile(_ context.Context, arg dbgen.CreateProfileParams) (dbgen.Profile, error) {
	if _, ok := q.profiles[arg.ID]; ok {
		return dbgen.Profile{}, &pgconn.PgError{Code: sqlstateUniqueViolation}
	}
	p := dbgen.Profile{ID: arg.ID, AccountID: arg.AccountID, Email: arg.Email, Role: arg.Role}
	q.profiles[arg.ID] = p
	return p, nil
}

func (q *onboardQueries) UpsertSettings(_ context.Context, arg dbgen.UpsertSettingsParams) (dbgen.Setting, error) {
	q.settings = append(q.settings, arg)
	return dbgen.Setting{AccountID: arg.AccountID, Currency: arg.Currency, GstEnabled: arg.GstEnabled, DefaultGstRate: arg.DefaultGstRate}, nil
}

func TestOnboardCreatesOwnerAccountOnce(t *testing.T) {
	q := newOnboardQueries()
	uid, err := UUID(uuid.NewString())
	require.NoError(t, err)
	seed := AccountSeed{Name: " My Store ", Currency: "inr", GSTEnabled: true, DefaultGSTRate: decimal.NewFromInt(18)}

	first, err := onboard(context.Background(), q, uid, " Owner@Shop.IN ", seed)
	require.NoError(t, err)
	require.True(t, first.Created)
	require.Equal(t, "My Store", first.Account.Name)
	require.Equal(t, "owner", first.Profile.Role)
	require.Equal(t, "owner@shop.in", first.Profile.Email)
	require.Len(t, q.settings, 1)
	require.Equal(t, "INR", q.settings[0].Currency)
	require.True(t, q.settings[0].DefaultGstRate.Equal(decimal.NewFromInt(18)))

	again, err := onboard(context.Background(), q, uid, "owner@shop.in", AccountSeed{Name: "Other"})
	require.NoError(t, err)
	require.False(t, again.Created)
	require.Equal(t, first.Account.ID, again.Account.ID)
	require.Len(t, q.accounts, 1)
	require.Len(t, q.settings, 1)
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(fmt.Errorf("create owner profile: %w", &pgconn.PgError{Code: "23505"})))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: "42703"}))
	require.False(t, isUniqueViolation(errors.New("duplicate key")))
}
