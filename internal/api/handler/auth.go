package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/kiranshivaraju/integrity/internal/api/response"
	"github.com/kiranshivaraju/integrity/internal/cache"
	"github.com/kiranshivaraju/integrity/internal/identity"
)

const (
	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute
)

// AttemptCounter tracks sign-in attempts per e-mail.
type AttemptCounter interface {
	IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
}

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// NewSignupHandler returns an http.HandlerFunc for POST /api/v1/auth/signup.
func NewSignupHandler(svc identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if !decode(w, r, &req) {
			return
		}

		acct, err := svc.CreateAccount(r.Context(), req.Email, req.Password, req.DisplayName)
		if err != nil {
			writeError(w, err)
			return
		}
		response.Created(w, acct)
	}
}

// NewLoginHandler returns an http.HandlerFunc for POST /api/v1/auth/login.
// After maxLoginAttempts tries inside loginAttemptWindow the address is
// locked out until the window expires. A successful sign-in clears the count.
// A nil counter disables the lockout.
func NewLoginHandler(svc identity.Service, attempts AttemptCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if !decode(w, r, &req) {
			return
		}

		key := cache.LoginAttemptKey(req.Email)
		if attempts != nil {
			n, err := attempts.IncrWithExpiry(r.Context(), key, loginAttemptWindow)
			if err != nil {
				slog.Warn("login attempt counter unavailable", "error", err)
			} else if n > maxLoginAttempts {
				w.Header().Set("Retry-After", "900")
				writeError(w, identity.ErrTooManyAttempts)
				return
			}
		}

		sess, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		if attempts != nil {
			if err := attempts.Delete(r.Context(), key); err != nil {
				slog.Warn("clearing login attempts failed", "error", err)
			}
		}
		response.JSON(w, sess)
	}
}
