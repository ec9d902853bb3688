package health_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/noah-isme/backend-inventory/internal/health"
)

type countingChecker struct{ pings int }

func (c *countingChecker) PingDB(context.Context, time.Duration) error {
	c.pings++
	return nil
}

func (c *countingChecker) PingRedis(context.Context, time.Duration) error {
	c.pings++
	return nil
}

// A draining API must leave the load balancer pool without touching Postgres
// or Redis, while liveness keeps answering so the process is not restarted.
func TestDrainingSkipsDependencyChecks(t *testing.T) {
	checker := &countingChecker{}
	handler := health.Handler{Checker: checker}
	t.Cleanup(func() { health.SetReady(true) })

	health.SetReady(false)
	rec := httptest.NewRecorder()
	handler.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready while draining: got %d", rec.Code)
	}
	if checker.pings != 0 {
		t.Fatalf("draining readiness pinged dependencies %d times", checker.pings)
	}

	rec = httptest.NewRecorder()
	handler.Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("live while draining: got %d", rec.Code)
	}

	health.SetReady(true)
	rec = httptest.NewRecorder()
	handler.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK || checker.pings != 2 {
		t.Fatalf("ready after resume: got %d with %d pings", rec.Code, checker.pings)
	}
}
