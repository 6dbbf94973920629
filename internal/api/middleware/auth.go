package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/integrity/internal/api/response"
	"github.com/kiranshivaraju/integrity/internal/identity"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Auth provides bearer-token authentication middleware.
type Auth struct {
	verifier TokenVerifier
}

// NewAuth creates a new Auth middleware.
func NewAuth(v TokenVerifier) *Auth {
	return &Auth{verifier: v}
}

// Authenticate validates the Bearer token and sets the user id in the
// request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		userID, err := a.verifier.Verify(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, identity.ErrInvalidToken):
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid or expired token", nil)
			return
		default:
			slog.Error("token verification failed", "error", err)
			response.Error(w, http.StatusServiceUnavailable,
				"IDENTITY_UNAVAILABLE", "Failed to validate token", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUserID(r.Context(), userID)))
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
