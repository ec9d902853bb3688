package settings_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-inventory/internal/common"
	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/settings"
)

type memStore struct {
	row   *dbgen.Setting
	saved int
}

func (m *memStore) Get(context.Context) (dbgen.Setting, error) {
	if m.row == nil {
		return dbgen.Setting{}, repo.ErrNotFound
	}
	return *m.row, nil
}

func (m *memStore) Save(_ context.Context, currency string, enabled bool, rate decimal.Decimal) (dbgen.Setting, error) {
	m.saved++
	m.row = &dbgen.Setting{Currency: currency, GstEnabled: enabled, DefaultGstRate: rate}
	return *m.row, nil
}

type memAccounts struct {
	acct dbgen.Account
}

func (m *memAccounts) Current(context.Context) (dbgen.Account, error) { return m.acct, nil }

func (m *memAccounts) Rename(_ context.Context, name string) (dbgen.Account, error) {
	m.acct.Name = name
	return m.acct, nil
}

func newService() (*settings.Service, *memStore, *memAccounts) {
	store := &memStore{}
	accounts := &memAccounts{acct: dbgen.Account{
		ID:   pgtype.UUID{Bytes: [16]byte{1}, Valid: true},
		Name: "Corner Store",
	}}
	return settings.NewService(store, accounts, ""), store, accounts
}

func TestCurrentPolicyDefaultsWhenUnset(t *testing.T) {
	svc, _, _ := newService()
	policy, err := svc.CurrentPolicy(context.Background())
	require.NoError(t, err)
	require.True(t, policy.Enabled)
	require.True(t, policy.RatePercent.Equal(decimal.NewFromInt(18)))

	current, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, "INR", current.Currency)
}

func TestCurrentPolicyReadsLatestSave(t *testing.T) {
	svc, _, _ := newService()
	enabled := false
	rate := decimal.NewFromInt(5)
	_, err := svc.Update(context.Background(), settings.UpdateInput{Currency: "usd", GSTEnabled: &enabled, DefaultGSTRate: &rate})
	require.NoError(t, err)

	policy, err := svc.CurrentPolicy(context.Background())
	require.NoError(t, err)
	require.False(t, policy.Enabled)
	require.True(t, policy.RatePercent.Equal(rate))
}

func TestUpdateValidation(t *testing.T) {
	svc, store, _ := newService()
	enabled := true
	bad := decimal.NewFromInt(150)
	_, err := svc.Update(context.Background(), settings.UpdateInput{Currency: "INR", GSTEnabled: &enabled, DefaultGSTRate: &bad})
	require.ErrorIs(t, err, settings.ErrInvalidRate)

	rate := decimal.NewFromInt(12)
	_, err = svc.Update(context.Background(), settings.UpdateInput{Currency: "RUPEES", GSTEnabled: &enabled, DefaultGSTRate: &rate})
	require.Error(t, err)
	require.Zero(t, store.saved)
}

func TestHandlers(t *testing.T) {
	svc, _, accounts := newService()
	h := &settings.Handler{Svc: svc}

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data settings.Overview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Corner Store", got.Data.Account.Name)
	require.True(t, got.Data.Settings.GSTEnabled)

	rec = httptest.NewRecorder()
	body := bytes.NewBufferString(`{"currency":"INR","gstEnabled":true}`)
	h.Update(rec, httptest.NewRequest(http.MethodPut, "/settings", body))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	rec = httptest.NewRecorder()
	body = bytes.NewBufferString(`{"currency":"INR","gstEnabled":true,"defaultGstRate":"12"}`)
	h.Update(rec, httptest.NewRequest(http.MethodPut, "/settings", body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Rename(rec, httptest.NewRequest(http.MethodPut, "/settings/account", bytes.NewBufferString(`{"name":"  Main Street  "}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Main Street", accounts.acct.Name)
}

type memOnboarder struct {
	byUser map[string]repo.Onboarding
	seeds  []repo.AccountSeed
	emails []string
}

func (m *memOnboarder) Onboard(_ context.Context, userID, email string, seed repo.AccountSeed) (repo.Onboarding, error) {
	if out, ok := m.byUser[userID]; ok {
		out.Created = false
		return out, nil
	}
	m.seeds = append(m.seeds, seed)
	m.emails = append(m.emails, email)
	out := repo.Onboarding{
		Account: dbgen.Account{ID: pgtype.UUID{Bytes: [16]byte{byte(len(m.byUser) + 2)}, Valid: true}, Name: seed.Name},
		Profile: dbgen.Profile{Role: "owner", Email: email},
		Created: true,
	}
	m.byUser[userID] = out
	return out, nil
}

func TestCreateAccountSeedsDefaultsOnce(t *testing.T) {
	svc, _, _ := newService()
	onboarder := &memOnboarder{byUser: map[string]repo.Onboarding{}}
	svc.Onboarding = onboarder
	ctx := common.WithUserEmail(common.WithUserID(context.Background(), "u1"), "owner@shop.in")

	m, err := svc.CreateAccount(ctx, settings.CreateAccountInput{Name: "   "})
	require.NoError(t, err)
	require.True(t, m.Created)
	require.Equal(t, settings.DefaultAccountName, m.Account.Name)
	require.Equal(t, "owner", m.Role)
	require.Equal(t, []string{"owner@shop.in"}, onboarder.emails)
	require.Equal(t, "INR", onboarder.seeds[0].Currency)
	require.True(t, onboarder.seeds[0].GSTEnabled)
	require.True(t, onboarder.seeds[0].DefaultGSTRate.Equal(decimal.NewFromInt(18)))

	again, err := svc.CreateAccount(ctx, settings.CreateAccountInput{Name: "Second Shop"})
	require.NoError(t, err)
	require.False(t, again.Created)
	require.Equal(t, m.Account.ID, again.Account.ID)
	require.Len(t, onboarder.seeds, 1)

	_, err = svc.CreateAccount(context.Background(), settings.CreateAccountInput{})
	require.ErrorIs(t, err, settings.ErrUserRequired)
}

func TestCreateAccountHandler(t *testing.T) {
	svc, _, _ := newService()
	svc.Onboarding = &memOnboarder{byUser: map[string]repo.Onboarding{}}
	h := &settings.Handler{Svc: svc}
	ctx := common.WithUserID(context.Background(), "u1")

	rec := httptest.NewRecorder()
	h.CreateAccount(rec, httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{"name":"Corner Shop"}`)).WithContext(ctx))
	require.Equal(t, http.StatusCreated, rec.Code)
	var got struct {
		Data settings.Membership `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Corner Shop", got.Data.Account.Name)

	rec = httptest.NewRecorder()
	h.CreateAccount(rec, httptest.NewRequest(http.MethodPost, "/accounts", http.NoBody).WithContext(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.CreateAccount(rec, httptest.NewRequest(http.MethodPost, "/accounts", http.NoBody))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
