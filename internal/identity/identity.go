// Package identity creates accounts, signs users in and verifies the bearer
// tokens presented to the API. The user id carried through the rest of the
// system is the account e-mail address.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Sentinel errors shared by all backends.
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTooManyAttempts    = errors.New("too many sign-in attempts")
	ErrUnavailable        = errors.New("identity provider unavailable")
)

const minPasswordLen = 6

// Account is a newly created user.
type Account struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Session is the result of a successful sign-in.
type Session struct {
	Token       string    `json:"token"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service is implemented by every identity backend.
type Service interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error)
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	// Verify checks a bearer token and returns the user id it belongs to.
	Verify(ctx context.Context, token string) (string, error)
}

// normalizeEmail validates and lower-cases an address.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return strings.ToLower(email), nil
}

func validatePassword(password string) error {
	if len([]rune(password)) < minPasswordLen {
		return ErrWeakPassword
	}
	return nil
}
