package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-inventory/internal/obs"
	"github.com/noah-isme/backend-inventory/internal/pricing"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

var (
	// ErrProductNotFound indicates the product is not in the account's catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrAccountRequired indicates the context carries no account.
	ErrAccountRequired = errors.New("account required")
)

// Catalog resolves products into cart snapshots keyed by id.
type Catalog interface {
	Lookup(ctx context.Context, ids []string) (map[string]Product, error)
}

// PolicySource returns the tax policy currently in force for the account.
type PolicySource interface {
	CurrentPolicy(ctx context.Context) (pricing.Policy, error)
}

// Locker serialises work on a key.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Service applies cart mutations to Redis backed sessions, one writer per cart.
type Service struct {
	Store   Store
	Catalog Catalog
	Locker  Locker
	LockTTL time.Duration
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// LockKey is the lock guarding mutations of a cart.
func LockKey(accountID, cartID string) string {
	return tenant.PrefixKey(accountID, "lock:cart:"+cartID)
}

// Create starts an empty cart session.
func (s *Service) Create(ctx context.Context) (*Cart, error) {
	accountID, ok := tenant.AccountID(ctx)
	if !ok {
		return nil, ErrAccountRequired
	}
	c := New(uuid.NewString(), s.now())
	if err := s.Store.Save(ctx, accountID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get loads a cart and refreshes its product snapshots from the catalog.
func (s *Service) Get(ctx context.Context, cartID string) (*Cart, error) {
	accountID, ok := tenant.AccountID(ctx)
	if !ok {
		return nil, ErrAccountRequired
	}
	c, err := s.Store.Load(ctx, accountID, cartID)
	if err != nil {
		return nil, err
	}
	if s.Catalog != nil && !c.IsEmpty() {
		products, err := s.Catalog.Lookup(ctx, c.ProductIDs())
		if err != nil {
			return nil, err
		}
		c.Refresh(products)
	}
	return c, nil
}

// Mutate runs fn on the cart under its lock and persists the result when fn
// succeeds.
func (s *Service) Mutate(ctx context.Context, cartID, op string, fn func(context.Context, *Cart) error) (*Cart, error) {
	accountID, ok := tenant.AccountID(ctx)
	if !ok {
		return nil, ErrAccountRequired
	}
	var out *Cart
	run := func(ctx context.Context) error {
		c, err := s.Store.Load(ctx, accountID, cartID)
		if err != nil {
			return err
		}
		if err := fn(ctx, c); err != nil {
			return err
		}
		c.UpdatedAt = s.now()
		if err := s.Store.Save(ctx, accountID, c); err != nil {
			return err
		}
		out = c
		return nil
	}
	var err error
	if s.Locker != nil {
		err = s.Locker.WithLock(ctx, LockKey(accountID, cartID), s.LockTTL, run)
	} else {
		err = run(ctx)
	}
	recordMutation(op, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func recordMutation(op string, err error) {
	if obs.CartMutationsTotal == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrOutOfStock):
		result = "out_of_stock"
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidPrice):
		result = "invalid"
	default:
		result = "error"
	}
	obs.CartMutationsTotal.WithLabelValues(op, result).Inc()
}

func (s *Service) product(ctx context.Context, productID string) (Product, error) {
	if s.Catalog == nil {
		return Product{}, errors.New("cart: catalog not configured")
	}
	products, err := s.Catalog.Lookup(ctx, []string{productID})
	if err != nil {
		return Product{}, err
	}
	p, ok := products[productID]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

// Add puts qty units of productID in the cart using fresh stock figures.
func (s *Service) Add(ctx context.Context, cartID, productID string, qty int) (*Cart, error) {
	return s.Mutate(ctx, cartID, "add", func(ctx context.Context, c *Cart) error {
		if qty <= 0 {
			return ErrInvalidQuantity
		}
		p, err := s.product(ctx, productID)
		if err != nil {
			return err
		}
		return c.Add(p, qty)
	})
}

// UpdateQuantity sets the quantity of a line using fresh stock figures.
func (s *Service) UpdateQuantity(ctx context.Context, cartID, productID string, qty int) (*Cart, error) {
	return s.Mutate(ctx, cartID, "update", func(ctx context.Context, c *Cart) error {
		if qty <= 0 {
			return ErrInvalidQuantity
		}
		if _, ok := c.Line(productID); !ok {
			return ErrNotInCart
		}
		p, err := s.product(ctx, productID)
		if err != nil {
			return err
		}
		c.Refresh(map[string]Product{p.ID: p})
		return c.UpdateQuantity(productID, qty)
	})
}

// Remove drops a line.
func (s *Service) Remove(ctx context.Context, cartID, productID string) (*Cart, error) {
	return s.Mutate(ctx, cartID, "remove", func(_ context.Context, c *Cart) error {
		c.Remove(productID)
		return nil
	})
}

// SetPriceOverride sets or, with a nil price, clears a line's price override.
func (s *Service) SetPriceOverride(ctx context.Context, cartID, productID string, price *decimal.Decimal) (*Cart, error) {
	return s.Mutate(ctx, cartID, "price", func(_ context.Context, c *Cart) error {
		return c.SetPriceOverride(productID, price)
	})
}

// Clear empties the cart but keeps the session.
func (s *Service) Clear(ctx context.Context, cartID string) (*Cart, error) {
	return s.Mutate(ctx, cartID, "clear", func(_ context.Context, c *Cart) error {
		c.Clear()
		return nil
	})
}

// Checkout runs fn on the refreshed cart under its mutation lock and empties
// the cart when fn succeeds. Mutations arriving meanwhile wait for the lock,
// so only the lines fn saw are removed.
func (s *Service) Checkout(ctx context.Context, cartID string, fn func(context.Context, *Cart) error) (*Cart, error) {
	return s.Mutate(ctx, cartID, "checkout", func(ctx context.Context, c *Cart) error {
		if s.Catalog != nil && !c.IsEmpty() {
			products, err := s.Catalog.Lookup(ctx, c.ProductIDs())
			if err != nil {
				return err
			}
			c.Refresh(products)
		}
		if err := fn(ctx, c); err != nil {
			return err
		}
		c.Clear()
		return nil
	})
}

// Discard drops the session.
func (s *Service) Discard(ctx context.Context, cartID string) error {
	accountID, ok := tenant.AccountID(ctx)
	if !ok {
		return ErrAccountRequired
	}
	if _, err := s.Store.Load(ctx, accountID, cartID); err != nil {
		return err
	}
	return s.Store.Delete(ctx, accountID, cartID)
}
