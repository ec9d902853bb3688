// Package settings owns the per-account currency and GST configuration.
package settings

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-inventory/internal/common"
	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/pricing"
	"github.com/noah-isme/backend-inventory/internal/repo"
)

// Defaults applied until an owner saves settings.
const (
	DefaultCurrency    = "INR"
	DefaultGSTRate     = 18
	DefaultAccountName = "My Store"
)

// Store reads and writes the settings row.
type Store interface {
	Get(ctx context.Context) (dbgen.Setting, error)
	Save(ctx context.Context, currency string, gstEnabled bool, defaultRate decimal.Decimal) (dbgen.Setting, error)
}

// Accounts reads and renames the caller's account.
type Accounts interface {
	Current(ctx context.Context) (dbgen.Account, error)
	Rename(ctx context.Context, name string) (dbgen.Account, error)
}

// Onboarder creates the first account of a signed-up user.
type Onboarder interface {
	Onboard(ctx context.Context, userID, email string, seed repo.AccountSeed) (repo.Onboarding, error)
}

// Settings is the public view of the account configuration.
type Settings struct {
	Currency       string          `json:"currency"`
	GSTEnabled     bool            `json:"gstEnabled"`
	DefaultGSTRate decimal.Decimal `json:"defaultGstRate"`
}

// Account is the public view of the account row.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Overview bundles the account with its settings.
type Overview struct {
	Account  Account  `json:"account"`
	Settings Settings `json:"settings"`
}

// UpdateInput is the payload accepted when saving settings.
type UpdateInput struct {
	Currency       string           `json:"currency" validate:"required,len=3,alpha"`
	GSTEnabled     *bool            `json:"gstEnabled" validate:"required"`
	DefaultGSTRate *decimal.Decimal `json:"defaultGstRate" validate:"required"`
}

// CreateAccountInput is the payload accepted when a user sets up their store.
type CreateAccountInput struct {
	Name string `json:"name" validate:"max=120"`
}

// Membership is returned after onboarding.
type Membership struct {
	Account Account `json:"account"`
	Role    string  `json:"role"`
	Created bool    `json:"created"`
}

// ErrUserRequired is returned when onboarding runs without an authenticated user.
var ErrUserRequired = errors.New("settings: authenticated user required")

// RenameInput is the payload accepted when renaming the account.
type RenameInput struct {
	Name string `json:"name" validate:"required,max=120"`
}

// ErrInvalidRate is returned when the default rate is outside 0..100.
var ErrInvalidRate = errors.New("settings: gst rate must be between 0 and 100")

// Service exposes settings operations and serves as the tax policy source.
type Service struct {
	Store      Store
	Accounts   Accounts
	Onboarding Onboarder
	Default    Settings

	validate *validator.Validate
}

// NewService constructs a Service with the built-in defaults.
func NewService(store Store, accounts Accounts, currency string) *Service {
	if strings.TrimSpace(currency) == "" {
		currency = DefaultCurrency
	}
	return &Service{
		Store:    store,
		Accounts: accounts,
		Default: Settings{
			Currency:       strings.ToUpper(currency),
			GSTEnabled:     true,
			DefaultGSTRate: decimal.NewFromInt(DefaultGSTRate),
		},
		validate: validator.New(),
	}
}

// Current returns the saved settings or the defaults when none exist.
func (s *Service) Current(ctx context.Context) (Settings, error) {
	row, err := s.Store.Get(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		return s.Default, nil
	}
	if err != nil {
		return Settings{}, err
	}
	return fromRow(row), nil
}

// CurrentPolicy returns the tax policy currently in force for the account.
// Callers read it fresh for every computation.
func (s *Service) CurrentPolicy(ctx context.Context) (pricing.Policy, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return pricing.Policy{}, err
	}
	return pricing.Policy{Enabled: current.GSTEnabled, RatePercent: current.DefaultGSTRate}, nil
}

// Overview returns the account alongside its settings.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	acct, err := s.Accounts.Current(ctx)
	if err != nil {
		return Overview{}, err
	}
	current, err := s.Current(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Overview{Account: accountView(acct), Settings: current}, nil
}

// Update validates and saves the settings.
func (s *Service) Update(ctx context.Context, in UpdateInput) (Settings, error) {
	if err := s.validator().Struct(in); err != nil {
		return Settings{}, err
	}
	rate := *in.DefaultGSTRate
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return Settings{}, ErrInvalidRate
	}
	row, err := s.Store.Save(ctx, in.Currency, *in.GSTEnabled, rate)
	if err != nil {
		return Settings{}, err
	}
	return fromRow(row), nil
}

// Rename changes the account display name.
func (s *Service) Rename(ctx context.Context, in RenameInput) (Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator().Struct(in); err != nil {
		return Account{}, err
	}
	acct, err := s.Accounts.Rename(ctx, in.Name)
	if err != nil {
		return Account{}, err
	}
	return accountView(acct), nil
}

// CreateAccount sets up an account owned by the caller with default
// settings. A caller that already belongs to an account gets that membership
// back unchanged.
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (Membership, error) {
	userID, ok := common.UserID(ctx)
	if !ok {
		return Membership{}, ErrUserRequired
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator().Struct(in); err != nil {
		return Membership{}, err
	}
	if in.Name == "" {
		in.Name = DefaultAccountName
	}
	if s.Onboarding == nil {
		return Membership{}, errors.New("settings: onboarding not configured")
	}
	out, err := s.Onboarding.Onboard(ctx, userID, common.UserEmail(ctx), repo.AccountSeed{
		Name:           in.Name,
		Currency:       s.Default.Currency,
		GSTEnabled:     s.Default.GSTEnabled,
		DefaultGSTRate: s.Default.DefaultGSTRate,
	})
	if err != nil {
		return Membership{}, err
	}
	return Membership{Account: accountView(out.Account), Role: out.Profile.Role, Created: out.Created}, nil
}

func (s *Service) validator() *validator.Validate {
	if s.validate == nil {
		s.validate = validator.New()
	}
	return s.validate
}

func fromRow(row dbgen.Setting) Settings {
	return Settings{Currency: row.Currency, GSTEnabled: row.GstEnabled, DefaultGSTRate: row.DefaultGstRate}
}

func accountView(a dbgen.Account) Account {
	return Account{ID: repo.UUIDString(a.ID), Name: a.Name}
}
