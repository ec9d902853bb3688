// Package cart holds the in-progress sale: an ordered set of product lines
// validated against stock on hand.
package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-inventory/internal/pricing"
)

var (
	// ErrOutOfStock is matched by every *StockError.
	ErrOutOfStock = errors.New("out of stock")
	// ErrInvalidQuantity indicates a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidPrice indicates a negative price override.
	ErrInvalidPrice = errors.New("price must not be negative")
	// ErrNotInCart indicates the product has no line in the cart.
	ErrNotInCart = errors.New("product not in cart")
)

// StockError reports a request that exceeds the available quantity.
type StockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
	InCart    int
}

func (e *StockError) Error() string {
	if e.InCart > 0 {
		return fmt.Sprintf("only %d of %s available, %d already in cart", e.Available, e.Name, e.InCart)
	}
	return fmt.Sprintf("only %d of %s available", e.Available, e.Name)
}

// Is makes errors.Is(err, ErrOutOfStock) hold.
func (e *StockError) Is(target error) bool { return target == ErrOutOfStock }

// State is the coarse lifecycle state of a cart.
type State string

const (
	StateEmpty    State = "empty"
	StateNonEmpty State = "non_empty"
)

// Product is the catalog snapshot a line was validated against.
type Product struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	SellingPrice decimal.Decimal  `json:"sellingPrice"`
	GSTRate      *decimal.Decimal `json:"gstRate,omitempty"`
	Available    int              `json:"available"`
}

// Line is one product in the cart.
type Line struct {
	Product       Product          `json:"product"`
	Quantity      int              `json:"quantity"`
	PriceOverride *decimal.Decimal `json:"priceOverride,omitempty"`
}

// UnitPrice is the override when set, the catalog price otherwise.
func (l Line) UnitPrice() decimal.Decimal {
	if l.PriceOverride != nil {
		return *l.PriceOverride
	}
	return l.Product.SellingPrice
}

// Cart is an ordered list of lines with at most one line per product.
type Cart struct {
	ID        string    `json:"id"`
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns an empty cart.
func New(id string, now time.Time) *Cart {
	return &Cart{ID: id, Lines: []Line{}, CreatedAt: now, UpdatedAt: now}
}

func (c *Cart) index(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// State reports whether the cart has any line.
func (c *Cart) State() State {
	if len(c.Lines) == 0 {
		return StateEmpty
	}
	return StateNonEmpty
}

// IsEmpty is shorthand for State() == StateEmpty.
func (c *Cart) IsEmpty() bool { return c.State() == StateEmpty }

// Line returns the line of productID.
func (c *Cart) Line(productID string) (Line, bool) {
	i := c.index(productID)
	if i < 0 {
		return Line{}, false
	}
	return c.Lines[i], true
}

// Add puts qty units of p in the cart. An existing line is merged and the
// summed quantity is checked against stock; on failure the cart is unchanged.
func (c *Cart) Add(p Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	i := c.index(p.ID)
	inCart := 0
	if i >= 0 {
		inCart = c.Lines[i].Quantity
	}
	if inCart+qty > p.Available {
		return &StockError{ProductID: p.ID, Name: p.Name, Requested: qty, Available: p.Available, InCart: inCart}
	}
	if i >= 0 {
		c.Lines[i].Product = p
		c.Lines[i].Quantity = inCart + qty
		return nil
	}
	c.Lines = append(c.Lines, Line{Product: p, Quantity: qty})
	return nil
}

// UpdateQuantity replaces the quantity of an existing line.
func (c *Cart) UpdateQuantity(productID string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	i := c.index(productID)
	if i < 0 {
		return ErrNotInCart
	}
	p := c.Lines[i].Product
	if qty > p.Available {
		return &StockError{ProductID: p.ID, Name: p.Name, Requested: qty, Available: p.Available}
	}
	c.Lines[i].Quantity = qty
	return nil
}

// Remove drops the line of productID. Absent products are ignored.
func (c *Cart) Remove(productID string) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// SetPriceOverride sets the unit price used for productID. A nil price
// restores the catalog price.
func (c *Cart) SetPriceOverride(productID string, price *decimal.Decimal) error {
	i := c.index(productID)
	if i < 0 {
		return ErrNotInCart
	}
	if price == nil {
		c.Lines[i].PriceOverride = nil
		return nil
	}
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	v := *price
	c.Lines[i].PriceOverride = &v
	return nil
}

// Clear empties the cart, overrides included.
func (c *Cart) Clear() {
	c.Lines = []Line{}
}

// Refresh replaces the product snapshot of every line found in products.
func (c *Cart) Refresh(products map[string]Product) {
	for i := range c.Lines {
		if p, ok := products[c.Lines[i].Product.ID]; ok {
			c.Lines[i].Product = p
		}
	}
}

// ProductIDs lists the products in line order.
func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.Product.ID)
	}
	return ids
}

// Price computes per-line and cart totals under policy.
func (c *Cart) Price(policy pricing.Policy) (pricing.Totals, []pricing.Line) {
	items := make([]pricing.Item, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, pricing.Item{UnitPrice: l.UnitPrice(), Quantity: l.Quantity, Rate: l.Product.GSTRate})
	}
	return pricing.ComputeCart(items, policy)
}
