package cart_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-inventory/internal/cart"
	"github.com/noah-isme/backend-inventory/internal/lock"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

type fakeCatalog map[string]cart.Product

func (f fakeCatalog) Lookup(_ context.Context, ids []string) (map[string]cart.Product, error) {
	out := make(map[string]cart.Product, len(ids))
	for _, id := range ids {
		if p, ok := f[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func newService(t *testing.T, catalog fakeCatalog) (*cart.Service, *miniredis.Miniredis, context.Context) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := &cart.Service{
		Store:   cart.Store{R: client, TTL: time.Hour},
		Catalog: catalog,
		Locker:  lock.Locker{R: client, RetryBackoff: time.Millisecond},
		LockTTL: time.Second,
	}
	ctx := tenant.WithAccount(context.Background(), uuid.NewString())
	return svc, mr, ctx
}

func TestServiceLifecycle(t *testing.T) {
	svc, mr, ctx := newService(t, fakeCatalog{
		"p1": {ID: "p1", Name: "Widget", SellingPrice: decimal.NewFromInt(100), Available: 3},
	})

	c, err := svc.Create(ctx)
	require.NoError(t, err)
	require.True(t, c.IsEmpty())

	c, err = svc.Add(ctx, c.ID, "p1", 2)
	require.NoError(t, err)
	require.Equal(t, 2, c.Lines[0].Quantity)

	_, err = svc.Add(ctx, c.ID, "p1", 2)
	require.ErrorIs(t, err, cart.ErrOutOfStock)

	loaded, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Lines[0].Quantity)

	_, err = svc.Add(ctx, c.ID, "ghost", 1)
	require.ErrorIs(t, err, cart.ErrProductNotFound)

	_, err = svc.UpdateQuantity(ctx, c.ID, "p1", 3)
	require.NoError(t, err)

	c, err = svc.Clear(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, c.IsEmpty())

	require.NoError(t, svc.Discard(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	require.ErrorIs(t, err, cart.ErrNotFound)
	require.Empty(t, mr.Keys())
}

func TestServiceRefreshesStockOnUpdate(t *testing.T) {
	catalog := fakeCatalog{"p1": {ID: "p1", Name: "Widget", Available: 5}}
	svc, _, ctx := newService(t, catalog)
	c, err := svc.Create(ctx)
	require.NoError(t, err)
	_, err = svc.Add(ctx, c.ID, "p1", 1)
	require.NoError(t, err)

	catalog["p1"] = cart.Product{ID: "p1", Name: "Widget", Available: 2}
	_, err = svc.UpdateQuantity(ctx, c.ID, "p1", 4)
	require.ErrorIs(t, err, cart.ErrOutOfStock)
}

func TestServiceIsolatesAccounts(t *testing.T) {
	svc, _, ctx := newService(t, fakeCatalog{})
	c, err := svc.Create(ctx)
	require.NoError(t, err)

	other := tenant.WithAccount(context.Background(), uuid.NewString())
	_, err = svc.Get(other, c.ID)
	require.ErrorIs(t, err, cart.ErrNotFound)

	_, err = svc.Get(context.Background(), c.ID)
	require.ErrorIs(t, err, cart.ErrAccountRequired)
}

func TestServiceCartExpires(t *testing.T) {
	svc, mr, ctx := newService(t, fakeCatalog{})
	c, err := svc.Create(ctx)
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)
	_, err = svc.Get(ctx, c.ID)
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestServiceCheckoutHoldsMutationLock(t *testing.T) {
	svc, mr, ctx := newService(t, fakeCatalog{
		"p1": {ID: "p1", Name: "Widget", Available: 5},
	})
	c, err := svc.Create(ctx)
	require.NoError(t, err)
	_, err = svc.Add(ctx, c.ID, "p1", 2)
	require.NoError(t, err)

	accountID, _ := tenant.AccountID(ctx)
	_, err = svc.Checkout(ctx, c.ID, func(_ context.Context, seen *cart.Cart) error {
		require.True(t, mr.Exists(cart.LockKey(accountID, c.ID)))
		require.Len(t, seen.Lines, 1)
		return nil
	})
	require.NoError(t, err)

	c, err = svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, c.IsEmpty())
}

func TestServiceCheckoutKeepsCartOnError(t *testing.T) {
	svc, _, ctx := newService(t, fakeCatalog{
		"p1": {ID: "p1", Name: "Widget", Available: 5},
	})
	c, err := svc.Create(ctx)
	require.NoError(t, err)
	_, err = svc.Add(ctx, c.ID, "p1", 1)
	require.NoError(t, err)

	boom := errors.New("insert failed")
	_, err = svc.Checkout(ctx, c.ID, func(context.Context, *cart.Cart) error { return boom })
	require.ErrorIs(t, err, boom)

	c, err = svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
}
