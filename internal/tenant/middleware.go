package tenant

import (
	"context"
	"errors"
	"net/http"

	"github.com/noah-isme/backend-inventory/internal/common"
	"github.com/noah-isme/backend-inventory/internal/obs"
)

// ErrNoProfile is returned by a ProfileLookup when the user has no profile.
var ErrNoProfile = errors.New("tenant: profile not found")

// ProfileLookup resolves the membership of an authenticated user.
type ProfileLookup interface {
	MembershipFor(ctx context.Context, userID string) (Membership, error)
}

// Resolver attaches the caller's membership to the request context. It must
// run after authentication.
type Resolver struct {
	Profiles ProfileLookup
}

// Middleware resolves the membership and injects it into the context passed downstream.
func (r Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.Profiles == nil {
			common.JSONError(w, http.StatusInternalServerError, "TENANT_NOT_CONFIGURED", "profile lookup not configured", nil)
			return
		}
		userID, ok := common.UserID(req.Context())
		if !ok {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		m, err := r.Profiles.MembershipFor(req.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrNoProfile) {
				common.JSONError(w, http.StatusForbidden, "NO_PROFILE", "user has no profile", nil)
				return
			}
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to resolve profile", nil)
			return
		}
		m.UserID = userID
		obs.AnnotateRequest(req, obs.FieldAccountID, m.AccountID)
		obs.AnnotateRequest(req, obs.FieldRole, string(m.Role))
		next.ServeHTTP(w, req.WithContext(WithMembership(req.Context(), m)))
	})
}

// RequireOwner rejects callers that are not the account owner.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		m, ok := FromContext(req.Context())
		if !ok {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "forbidden", nil)
			return
		}
		if !m.IsOwner() {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "owner access required", nil)
			return
		}
		next.ServeHTTP(w, req)
	})
}
