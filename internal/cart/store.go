package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-inventory/internal/tenant"
)

// ErrNotFound indicates the cart session does not exist or has expired.
var ErrNotFound = errors.New("cart not found")

// Store keeps cart sessions in Redis as JSON documents with a sliding TTL.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func (s Store) ttl() time.Duration {
	if s.TTL <= 0 {
		return 2 * time.Hour
	}
	return s.TTL
}

func key(accountID, cartID string) string {
	return tenant.PrefixKey(accountID, "cart:"+cartID)
}

// Load reads a cart of the account.
func (s Store) Load(ctx context.Context, accountID, cartID string) (*Cart, error) {
	if s.R == nil {
		return nil, errors.New("cart: redis client not configured")
	}
	raw, err := s.R.Get(ctx, key(accountID, cartID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.Lines == nil {
		c.Lines = []Line{}
	}
	return &c, nil
}

// Save writes c and restarts its TTL.
func (s Store) Save(ctx context.Context, accountID string, c *Cart) error {
	if s.R == nil {
		return errors.New("cart: redis client not configured")
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.R.Set(ctx, key(accountID, c.ID), raw, s.ttl()).Err()
}

// Delete drops the session.
func (s Store) Delete(ctx context.Context, accountID, cartID string) error {
	if s.R == nil {
		return errors.New("cart: redis client not configured")
	}
	return s.R.Del(ctx, key(accountID, cartID)).Err()
}
