package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-inventory/internal/tenant"
)

var (
	// ErrAccountMissing indicates the account identifier was not found in context.
	ErrAccountMissing = errors.New("account missing")
	// ErrAccountInvalid indicates the account identifier could not be parsed.
	ErrAccountInvalid = errors.New("account invalid")
	// ErrNotFound is returned when an account scoped row does not exist.
	ErrNotFound = errors.New("not found")
)

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool and pgx.Tx.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

func accountUUIDFromContext(ctx context.Context) (pgtype.UUID, error) {
	accountID, ok := tenant.AccountID(ctx)
	if !ok {
		return pgtype.UUID{}, ErrAccountMissing
	}
	aid, err := UUID(accountID)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w: %v", ErrAccountInvalid, err)
	}
	return aid, nil
}

// UUID parses id into its pgtype representation.
func UUID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

// UUIDString renders id, returning "" for NULL.
func UUIDString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// Text converts s to a nullable text value; blank strings become NULL.
func Text(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// NullDecimal converts an optional decimal.
func NullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// DecimalPtr is the inverse of NullDecimal.
func DecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

const sqlstateUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlstateUniqueViolation
}
