package repo

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
)

// SettingsQuerier defines the sqlc generated queries used by SettingsRepo.
type SettingsQuerier interface {
	GetSettingsByAccount(ctx context.Context, accountID pgtype.UUID) (dbgen.Setting, error)
	UpsertSettings(ctx context.Context, arg dbgen.UpsertSettingsParams) (dbgen.Setting, error)
}

// SettingsRepo reads and writes the per-account settings row.
type SettingsRepo struct {
	Q SettingsQuerier
}

// Get returns the account settings or ErrNotFound when none were saved yet.
func (r SettingsRepo) Get(ctx context.Context) (dbgen.Setting, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return dbgen.Setting{}, err
	}
	row, err := r.Q.GetSettingsByAccount(ctx, aid)
	return row, notFound(err)
}

// Save upserts the account settings.
func (r SettingsRepo) Save(ctx context.Context, currency string, gstEnabled bool, defaultRate decimal.Decimal) (dbgen.Setting, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return dbgen.Setting{}, err
	}
	return r.Q.UpsertSettings(ctx, dbgen.UpsertSettingsParams{
		AccountID:      aid,
		Currency:       strings.ToUpper(strings.TrimSpace(currency)),
		GstEnabled:     gstEnabled,
		DefaultGstRate: defaultRate,
	})
}
