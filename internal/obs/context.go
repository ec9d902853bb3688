package obs

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Fields recorded on the request scope.
const (
	FieldUserID    = "user_id"
	FieldAccountID = "account_id"
	FieldRole      = "role"
	FieldCartID    = "cart_id"
)

type scopeKey struct{}

// Scope collects the tenant identifiers resolved while a request runs. It is
// created by the outermost middleware so that tracing and metrics, which
// finish after the handler, can see the account and role that auth and the
// tenant resolver attached further in.
type Scope struct {
	mu     sync.RWMutex
	fields map[string]string
}

// Set records value under key. Blank values are ignored.
func (s *Scope) Set(key, value string) {
	if s == nil || value == "" {
		return
	}
	s.mu.Lock()
	if s.fields == nil {
		s.fields = make(map[string]string, 4)
	}
	s.fields[key] = value
	s.mu.Unlock()
}

// Get returns the value for key or "".
func (s *Scope) Get(key string) string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields[key]
}

// WithScope returns ctx carrying a scope, reusing one already present.
func WithScope(ctx context.Context) (context.Context, *Scope) {
	if s := ScopeFromContext(ctx); s != nil {
		return ctx, s
	}
	s := &Scope{}
	return context.WithValue(ctx, scopeKey{}, s), s
}

// ScopeFromContext returns the request scope or nil.
func ScopeFromContext(ctx context.Context) *Scope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(scopeKey{}).(*Scope)
	return s
}

// ScopeMiddleware attaches a Scope to every request. Mount it before the
// tracing, metrics and logging middleware.
func ScopeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := WithScope(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// routeOf resolves the matched chi pattern. Called after the handler ran, so
// sub-router patterns are already joined.
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}

// cartIDOf returns the {id} URL parameter of cart routes.
func cartIDOf(r *http.Request, route string) string {
	if !isCartRoute(route) {
		return ""
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.URLParam("id")
	}
	return ""
}

func isCartRoute(route string) bool {
	return strings.HasPrefix(route, "/api/v1/carts/{id}")
}
