// Package sale turns a cart into persisted sale records and lists them back.
package sale

import (
	"errors"
	"fmt"

	"github.com/noah-isme/backend-inventory/internal/repo"
)

var (
	// ErrEmptyCart is returned when a cart without lines is submitted.
	ErrEmptyCart = errors.New("sale: cart is empty")
	// ErrSchemaIncompatible is returned when the insert still fails after the
	// optional customer columns were dropped.
	ErrSchemaIncompatible = errors.New("sale: sales table is incompatible")
	// ErrSubmissionInProgress is returned when the cart is already being submitted.
	ErrSubmissionInProgress = errors.New("sale: submission already in progress")
)

// PersistenceError wraps any other storage failure. Nothing is retried.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("sale: persist: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Record is a persisted sale line as read back from storage.
type Record = repo.SaleRecord

// Customer is the optional buyer information attached to a sale.
type Customer struct {
	Name  string `json:"customerName"`
	Phone string `json:"customerPhone"`
}

// Customer fields dropped when the sales table lacks them.
const (
	FieldCustomerName  = "customer_name"
	FieldCustomerPhone = "customer_phone"
)

// Result reports the outcome of a submission. Partial means the rows were
// stored without the fields listed in DroppedFields.
type Result struct {
	Inserted      int      `json:"inserted"`
	Partial       bool     `json:"partial"`
	DroppedFields []string `json:"droppedFields"`
	Warning       string   `json:"warning,omitempty"`
}

const partialWarning = "Sale recorded, but customer details were not saved because the sales table has no customer columns."
