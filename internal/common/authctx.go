package common

import (
	"context"
	"strings"
)

type ctxKey string

const (
	userIDKey    ctxKey = "auth/user-id"
	userEmailKey ctxKey = "auth/email"
)

// WithUserID stores the authenticated user identifier on the provided context.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, strings.TrimSpace(id))
}

// UserID extracts the authenticated user identifier from the context if present.
func UserID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithUserEmail stores the email claim of the authenticated user.
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, strings.TrimSpace(email))
}

// UserEmail returns the email claim, or "" when the token carried none.
func UserEmail(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	email, _ := ctx.Value(userEmailKey).(string)
	return email
}
