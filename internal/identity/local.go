package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/internal/store"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

const localIssuer = "integrity"

// Claims is the JWT payload issued by the local backend.
type Claims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	jwtlib.RegisteredClaims
}

// Local keeps bcrypt password hashes in the Store and issues HS256 tokens.
type Local struct {
	store  store.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewLocal creates a Local identity backend.
func NewLocal(st store.Store, cfg config.LocalAuthConfig) *Local {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Local{store: st, secret: []byte(cfg.JWTSecret), ttl: ttl, now: time.Now}
}

func (l *Local) CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	displayName = strings.TrimSpace(displayName)
	err = l.store.CreateUser(ctx, &models.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    l.now().UTC(),
	})
	if errors.Is(err, store.ErrDuplicateKey) {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &Account{Email: email, DisplayName: displayName}, nil
}

func (l *Local) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := l.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := l.now()
	expires := now.Add(l.ttl)
	claims := Claims{
		Email:       u.Email,
		DisplayName: u.DisplayName,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    localIssuer,
			Subject:   u.ID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(expires),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &Session{
		Token:       token,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		ExpiresAt:   expires.UTC(),
	}, nil
}

func (l *Local) Verify(_ context.Context, raw string) (string, error) {
	var claims Claims
	token, err := jwtlib.ParseWithClaims(raw, &claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return l.secret, nil
	},
		jwtlib.WithIssuer(localIssuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(l.now),
	)
	if err != nil || !token.Valid || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

var _ Service = (*Local)(nil)
