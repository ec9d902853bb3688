package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// DefaultPrefix namespaces limiter counters in Redis.
const DefaultPrefix = "ratelimit"

// Limiter reports the state of a key's bucket after counting one hit.
type Limiter interface {
	Get(ctx context.Context, key string) (limiter.Context, error)
}

// NewRedis builds a limiter backed by Redis. rate uses the "<limit>-<period>"
// format, e.g. "300-M".
func NewRedis(client redis.UniversalClient, rate, prefix string) (*limiter.Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: parse rate %q: %w", rate, err)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	store, err := limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix, MaxRetry: 3})
	if err != nil {
		return nil, fmt.Errorf("ratelimit: redis store: %w", err)
	}
	return limiter.New(store, parsed), nil
}

// NewMemory builds an in-process limiter.
func NewMemory(rate string) (*limiter.Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: parse rate %q: %w", rate, err)
	}
	return limiter.New(memory.NewStore(), parsed), nil
}
