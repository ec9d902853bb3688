package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-inventory/internal/auth"
	"github.com/noah-isme/backend-inventory/internal/common"
)

const testSecret = "super-secret-signing-key"

func signToken(t *testing.T, secret string, alg jwa.SignatureAlgorithm, build func(*jwt.Builder) *jwt.Builder) string {
	t.Helper()
	now := time.Now()
	b := jwt.NewBuilder().
		Subject("user-1").
		Audience([]string{"authenticated"}).
		IssuedAt(now).
		Expiration(now.Add(time.Hour)).
		Claim("role", "authenticated").
		Claim("email", "owner@example.com")
	if build != nil {
		b = build(b)
	}
	tok, err := b.Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(alg, []byte(secret)))
	require.NoError(t, err)
	return string(signed)
}

func newVerifier(t *testing.T) *auth.Verifier {
	t.Helper()
	v, err := auth.NewVerifier(auth.VerifierConfig{Secret: testSecret, Audience: "authenticated", Role: "authenticated"})
	require.NoError(t, err)
	return v
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := auth.NewVerifier(auth.VerifierConfig{Secret: "  "})
	require.Error(t, err)
}

func TestParseAccessTokenSuccess(t *testing.T) {
	v := newVerifier(t)
	claims, err := v.ParseAccessToken(signToken(t, testSecret, jwa.HS256, nil))
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "owner@example.com", claims.Email)
}

func TestParseAccessTokenRejects(t *testing.T) {
	v := newVerifier(t)
	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": signToken(t, "another-secret", jwa.HS256, nil),
		"wrong alg":    signToken(t, testSecret, jwa.HS512, nil),
		"expired": signToken(t, testSecret, jwa.HS256, func(b *jwt.Builder) *jwt.Builder {
			return b.IssuedAt(time.Now().Add(-2 * time.Hour)).Expiration(time.Now().Add(-time.Hour))
		}),
		"anon role": signToken(t, testSecret, jwa.HS256, func(b *jwt.Builder) *jwt.Builder {
			return b.Claim("role", "anon")
		}),
		"wrong audience": signToken(t, testSecret, jwa.HS256, func(b *jwt.Builder) *jwt.Builder {
			return b.Audience([]string{"other"})
		}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.ParseAccessToken(token)
			require.Error(t, err)
			var appErr *common.AppError
			require.ErrorAs(t, err, &appErr)
			require.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
		})
	}
}

func TestRequireAuthMiddleware(t *testing.T) {
	mw := auth.Middleware{Verifier: newVerifier(t)}
	var seen string
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = common.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwa.HS256, nil))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "user-1", seen)
}
