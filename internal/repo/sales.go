package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
)

// ErrUnknownColumn reports that the sales table lacks a column the statement
// referenced. Callers may retry without the optional customer columns.
var ErrUnknownColumn = errors.New("unknown column")

const sqlstateUndefinedColumn = "42703"

var repoNopLogger = zerolog.Nop()

// SalesQuerier defines the sqlc generated queries used by SalesRepo.
type SalesQuerier interface {
	CountSales(ctx context.Context, accountID pgtype.UUID) (int64, error)
	ListSalesPage(ctx context.Context, arg dbgen.ListSalesPageParams) ([]dbgen.ListSalesPageRow, error)
	ListSalesPageBasic(ctx context.Context, arg dbgen.ListSalesPageBasicParams) ([]dbgen.ListSalesPageBasicRow, error)
	ListSalesInRange(ctx context.Context, arg dbgen.ListSalesInRangeParams) ([]dbgen.ListSalesInRangeRow, error)
	SalesStatsSince(ctx context.Context, arg dbgen.SalesStatsSinceParams) (dbgen.SalesStatsSinceRow, error)
	SalesColumnExists(ctx context.Context, columnName string) (bool, error)
}

// SaleRow is one line of a submitted cart as written to the sales table.
type SaleRow struct {
	ProductID     string
	UserID        string
	Quantity      int32
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
	GSTAmount     *decimal.Decimal
	CustomerName  string
	CustomerPhone string
}

// SaleRecord is a sale as listed back to clients.
type SaleRecord struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"productId,omitempty"`
	ProductName   string           `json:"productName"`
	UserID        string           `json:"userId,omitempty"`
	Quantity      int32            `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	TotalPrice    decimal.Decimal  `json:"totalPrice"`
	GSTAmount     *decimal.Decimal `json:"gstAmount,omitempty"`
	CustomerName  *string          `json:"customerName,omitempty"`
	CustomerPhone *string          `json:"customerPhone,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// SalesRepo writes and reads account scoped sales.
type SalesRepo struct {
	Q      SalesQuerier
	DB     TxBeginner
	Logger *zerolog.Logger
}

// Insert writes every row with one multi-row statement inside a transaction.
// Stock is decremented by a trigger in the same statement, so either all rows
// and their stock movements are stored or none are. When withCustomer is set
// the customer columns are written too.
func (r SalesRepo) Insert(ctx context.Context, rows []SaleRow, withCustomer bool) error {
	if len(rows) == 0 {
		return nil
	}
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return err
	}
	if r.DB == nil {
		return errors.New("repo: sales insert requires a transactional database handle")
	}
	stmt, args, err := buildSalesInsert(aid, rows, withCustomer)
	if err != nil {
		return err
	}
	err = pgx.BeginFunc(ctx, r.DB, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, stmt, args...)
		return execErr
	})
	if err != nil {
		return r.classify(ctx, err)
	}
	return nil
}

func buildSalesInsert(accountID pgtype.UUID, rows []SaleRow, withCustomer bool) (string, []any, error) {
	cols := []string{"account_id", "product_id", "user_id", "quantity", "unit_price", "total_price", "gst_amount"}
	if withCustomer {
		cols = append(cols, "customer_name", "customer_phone")
	}
	var b strings.Builder
	b.WriteString("INSERT INTO sales (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES ")
	args := make([]any, 0, len(rows)*len(cols))
	for i, row := range rows {
		pid, err := UUID(row.ProductID)
		if err != nil {
			return "", nil, fmt.Errorf("repo: row %d product id: %w", i+1, err)
		}
		uid := pgtype.UUID{}
		if strings.TrimSpace(row.UserID) != "" {
			if uid, err = UUID(row.UserID); err != nil {
				return "", nil, fmt.Errorf("repo: row %d user id: %w", i+1, err)
			}
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range cols {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", len(args)+c+1)
		}
		b.WriteByte(')')
		args = append(args, accountID, pid, uid, row.Quantity, row.UnitPrice, row.TotalPrice, NullDecimal(row.GSTAmount))
		if withCustomer {
			args = append(args, Text(row.CustomerName), Text(row.CustomerPhone))
		}
	}
	return b.String(), args, nil
}

// classify maps a missing column error to ErrUnknownColumn. Proxies in front
// of Postgres sometimes drop the SQLSTATE, so the message is inspected too.
func (r SalesRepo) classify(ctx context.Context, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == sqlstateUndefinedColumn {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, pgErr.Message)
		}
		return err
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "customer_name") || strings.Contains(msg, "customer_phone") || strings.Contains(msg, "column") {
		r.logger(ctx).Warn().Err(err).Msg("unknown column matched on message text")
		return fmt.Errorf("%w: %v", ErrUnknownColumn, err)
	}
	return err
}

func (r SalesRepo) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	if r.Logger != nil {
		return r.Logger
	}
	return &repoNopLogger
}

// CustomerColumns reports whether the sales table carries both customer columns.
func (r SalesRepo) CustomerColumns(ctx context.Context) (bool, error) {
	for _, col := range []string{"customer_name", "customer_phone"} {
		ok, err := r.Q.SalesColumnExists(ctx, col)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Count returns the number of sales of the account.
func (r SalesRepo) Count(ctx context.Context) (int64, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return r.Q.CountSales(ctx, aid)
}

// Page lists sales newest first. When the customer columns are missing the
// listing is served without them.
func (r SalesRepo) Page(ctx context.Context, limit, offset int32) ([]SaleRecord, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.Q.ListSalesPage(ctx, dbgen.ListSalesPageParams{AccountID: aid, LimitValue: limit, OffsetValue: offset})
	if err == nil {
		out := make([]SaleRecord, 0, len(rows))
		for _, row := range rows {
			rec := saleRecord(row.ID, row.ProductID, row.UserID, row.ProductName, row.Quantity, row.UnitPrice, row.TotalPrice, row.GstAmount, row.CreatedAt)
			rec.CustomerName = textPtr(row.CustomerName)
			rec.CustomerPhone = textPtr(row.CustomerPhone)
			out = append(out, rec)
		}
		return out, nil
	}
	if !errors.Is(r.classify(ctx, err), ErrUnknownColumn) {
		return nil, err
	}
	r.logger(ctx).Warn().Msg("sales listing without customer columns")
	basic, err := r.Q.ListSalesPageBasic(ctx, dbgen.ListSalesPageBasicParams{AccountID: aid, LimitValue: limit, OffsetValue: offset})
	if err != nil {
		return nil, err
	}
	out := make([]SaleRecord, 0, len(basic))
	for _, row := range basic {
		out = append(out, saleRecord(row.ID, row.ProductID, row.UserID, row.ProductName, row.Quantity, row.UnitPrice, row.TotalPrice, row.GstAmount, row.CreatedAt))
	}
	return out, nil
}

func saleRecord(id, productID, userID pgtype.UUID, productName pgtype.Text, qty int32, unit, total decimal.Decimal, gst decimal.NullDecimal, createdAt pgtype.Timestamptz) SaleRecord {
	name := "Unknown Product"
	if productName.Valid && productName.String != "" {
		name = productName.String
	}
	return SaleRecord{
		ID:          UUIDString(id),
		ProductID:   UUIDString(productID),
		ProductName: name,
		UserID:      UUIDString(userID),
		Quantity:    qty,
		UnitPrice:   unit,
		TotalPrice:  total,
		GSTAmount:   DecimalPtr(gst),
		CreatedAt:   createdAt.Time.UTC(),
	}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// InRange returns the sales recorded in [from, to).
func (r SalesRepo) InRange(ctx context.Context, from, to time.Time) ([]SaleRecord, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.Q.ListSalesInRange(ctx, dbgen.ListSalesInRangeParams{
		AccountID: aid,
		FromTime:  pgtype.Timestamptz{Time: from, Valid: true},
		ToTime:    pgtype.Timestamptz{Time: to, Valid: true},
	})
	if err != nil {
		return nil, err
	}
	out := make([]SaleRecord, 0, len(rows))
	for _, row := range rows {
		rec := saleRecord(row.ID, row.ProductID, pgtype.UUID{}, row.ProductName, row.Quantity, decimal.Zero, row.TotalPrice, row.GstAmount, row.CreatedAt)
		out = append(out, rec)
	}
	return out, nil
}

// StatsSince returns the sale count and revenue since the given instant.
func (r SalesRepo) StatsSince(ctx context.Context, since time.Time) (dbgen.SalesStatsSinceRow, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return dbgen.SalesStatsSinceRow{}, err
	}
	return r.Q.SalesStatsSince(ctx, dbgen.SalesStatsSinceParams{
		AccountID: aid,
		CreatedAt: pgtype.Timestamptz{Time: since, Valid: true},
	})
}
