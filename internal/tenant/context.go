// Package tenant carries the caller's account membership through request contexts.
package tenant

import (
	"context"
	"strings"
)

// Role is the caller's role inside its account.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleWorker Role = "worker"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleWorker
}

// Membership binds an authenticated user to the account its data belongs to.
type Membership struct {
	UserID    string
	AccountID string
	Email     string
	Role      Role
}

// IsOwner reports whether the member owns the account.
func (m Membership) IsOwner() bool { return m.Role == RoleOwner }

type contextKey string

const membershipKey contextKey = "tenant.membership"

// WithMembership stores the membership inside the context.
func WithMembership(ctx context.Context, m Membership) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, membershipKey, m)
}

// WithAccount stores a membership carrying only the account identifier. Used by
// background jobs that act on behalf of an account.
func WithAccount(ctx context.Context, accountID string) context.Context {
	return WithMembership(ctx, Membership{AccountID: strings.TrimSpace(accountID)})
}

// FromContext extracts the membership from the context if available.
func FromContext(ctx context.Context) (Membership, bool) {
	if ctx == nil {
		return Membership{}, false
	}
	m, ok := ctx.Value(membershipKey).(Membership)
	if !ok || strings.TrimSpace(m.AccountID) == "" {
		return Membership{}, false
	}
	return m, true
}

// AccountID returns the account identifier stored in the context.
func AccountID(ctx context.Context) (string, bool) {
	m, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	return m.AccountID, true
}

// PrefixKey creates a namespaced cache key per account.
func PrefixKey(accountID, key string) string {
	if accountID == "" {
		return key
	}
	return accountID + ":" + key
}
