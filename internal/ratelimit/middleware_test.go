package ratelimit_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"

	"github.com/noah-isme/backend-inventory/internal/common"
	"github.com/noah-isme/backend-inventory/internal/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareEnforcesLimitWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lim, err := ratelimit.NewRedis(client, "1-M", "test")
	require.NoError(t, err)
	h := ratelimit.Handler{Limiter: lim, Key: func(*http.Request) string { return "static" }}.Middleware(okHandler())

	rr1 := httptest.NewRecorder()
	h.ServeHTTP(rr1, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusOK, rr1.Code)
	require.Equal(t, "1", rr1.Header().Get("X-RateLimit-Limit"))

	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusTooManyRequests, rr2.Code)
	require.Equal(t, "0", rr2.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, rr2.Header().Get("Retry-After"))
	require.Contains(t, rr2.Body.String(), "RATE_LIMITED")
}

func TestMiddlewareBucketsByUser(t *testing.T) {
	lim, err := ratelimit.NewMemory("1-H")
	require.NoError(t, err)
	h := ratelimit.Handler{Limiter: lim}.Middleware(okHandler())

	for _, user := range []string{"u1", "u2"} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req = req.WithContext(common.WithUserID(req.Context(), user))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, user)
	}
}

func TestUserKeyFallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	require.Equal(t, "ip:10.0.0.7", ratelimit.UserKey(req))
}

type failingLimiter struct{}

func (failingLimiter) Get(context.Context, string) (limiter.Context, error) {
	return limiter.Context{}, errors.New("store down")
}

func TestMiddlewareFailsOpen(t *testing.T) {
	called := false
	h := ratelimit.Handler{Limiter: failingLimiter{}, OnError: func(error) { called = true }}.Middleware(okHandler())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, called)
}

func TestNewRedisRejectsBadRate(t *testing.T) {
	_, err := ratelimit.NewRedis(nil, "lots", "")
	require.Error(t, err)
}
