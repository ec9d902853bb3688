package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

// AccountsQuerier defines the sqlc generated queries used by AccountsRepo.
type AccountsQuerier interface {
	GetAccount(ctx context.Context, id pgtype.UUID) (dbgen.Account, error)
	UpdateAccountName(ctx context.Context, arg dbgen.UpdateAccountNameParams) (dbgen.Account, error)
}

// AccountsRepo exposes the caller's own account row. DB is only needed by
// Onboard.
type AccountsRepo struct {
	Q  AccountsQuerier
	DB TxBeginner
}

// Current returns the account bound to ctx.
func (r AccountsRepo) Current(ctx context.Context) (dbgen.Account, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return dbgen.Account{}, err
	}
	row, err := r.Q.GetAccount(ctx, aid)
	return row, notFound(err)
}

// Rename updates the display name of the account bound to ctx.
func (r AccountsRepo) Rename(ctx context.Context, name string) (dbgen.Account, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return dbgen.Account{}, err
	}
	row, err := r.Q.UpdateAccountName(ctx, dbgen.UpdateAccountNameParams{ID: aid, Name: strings.TrimSpace(name)})
	return row, notFound(err)
}

// OnboardQuerier is the set of queries Onboard runs inside its transaction.
type OnboardQuerier interface {
	GetProfile(ctx context.Context, id pgtype.UUID) (dbgen.Profile, error)
	GetAccount(ctx context.Context, id pgtype.UUID) (dbgen.Account, error)
	CreateAccount(ctx context.Context, name string) (dbgen.Account, error)
	CreateProfile(ctx context.Context, arg dbgen.CreateProfileParams) (dbgen.Profile, error)
	UpsertSettings(ctx context.Context, arg dbgen.UpsertSettingsParams) (dbgen.Setting, error)
}

// AccountSeed describes a new account and the settings row created with it.
type AccountSeed struct {
	Name           string
	Currency       string
	GSTEnabled     bool
	DefaultGSTRate decimal.Decimal
}

// Onboarding is the membership Onboard found or created.
type Onboarding struct {
	Account dbgen.Account
	Profile dbgen.Profile
	Created bool
}

// Onboard creates an account owned by userID together with its owner profile
// and settings row, all in one transaction. A user that already has a profile
// gets its existing membership back and nothing is written.
func (r AccountsRepo) Onboard(ctx context.Context, userID, email string, seed AccountSeed) (Onboarding, error) {
	uid, err := UUID(userID)
	if err != nil {
		return Onboarding{}, fmt.Errorf("repo: invalid user id: %w", err)
	}
	if r.DB == nil {
		return Onboarding{}, errors.New("repo: onboarding requires a transactional database handle")
	}
	run := func() (Onboarding, error) {
		var out Onboarding
		err := pgx.BeginFunc(ctx, r.DB, func(tx pgx.Tx) error {
			var txErr error
			out, txErr = onboard(ctx, dbgen.New(tx), uid, email, seed)
			return txErr
		})
		return out, err
	}
	out, err := run()
	// A concurrent call inserted the profile first; the retry reads it back.
	if isUniqueViolation(err) {
		out, err = run()
	}
	return out, err
}

func onboard(ctx context.Context, q OnboardQuerier, uid pgtype.UUID, email string, seed AccountSeed) (Onboarding, error) {
	profile, err := q.GetProfile(ctx, uid)
	switch {
	case err == nil:
		acct, err := q.GetAccount(ctx, profile.AccountID)
		if err != nil {
			return Onboarding{}, notFound(err)
		}
		return Onboarding{Account: acct, Profile: profile}, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return Onboarding{}, err
	}

	acct, err := q.CreateAccount(ctx, strings.TrimSpace(seed.Name))
	if err != nil {
		return Onboarding{}, fmt.Errorf("create account: %w", err)
	}
	profile, err = q.CreateProfile(ctx, dbgen.CreateProfileParams{
		ID:        uid,
		AccountID: acct.ID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      string(tenant.RoleOwner),
	})
	if err != nil {
		return Onboarding{}, fmt.Errorf("create owner profile: %w", err)
	}
	if _, err := q.UpsertSettings(ctx, dbgen.UpsertSettingsParams{
		AccountID:      acct.ID,
		Currency:       strings.ToUpper(strings.TrimSpace(seed.Currency)),
		GstEnabled:     seed.GSTEnabled,
		DefaultGstRate: seed.DefaultGSTRate,
	}); err != nil {
		return Onboarding{}, fmt.Errorf("create settings: %w", err)
	}
	return Onboarding{Account: acct, Profile: profile, Created: true}, nil
}
