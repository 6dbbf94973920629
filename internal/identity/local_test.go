package identity_test

import (
	"context"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/internal/identity"
	"github.com/kiranshivaraju/integrity/internal/store"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// userStore is an in-memory store.Store holding only users.
type userStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newUserStore() *userStore { return &userStore{users: map[string]models.User{}} }

func (s *userStore) Ping(_ context.Context) error  { return nil }
func (s *userStore) Close(_ context.Context) error { return nil }
func (s *userStore) AppendDetectionReport(_ context.Context, _ *models.DetectionReport) (string, error) {
	return "", nil
}
func (s *userStore) ListDetectionReports(_ context.Context, _ string) ([]*models.DetectionReport, error) {
	return nil, nil
}
func (s *userStore) AppendSession(_ context.Context, _ *models.SessionRecord) (string, error) {
	return "", nil
}
func (s *userStore) ListSessions(_ context.Context, _ string) ([]*models.SessionRecord, error) {
	return nil, nil
}

func (s *userStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Email]; ok {
		return store.ErrDuplicateKey
	}
	s.users[u.Email] = *u
	return nil
}

func (s *userStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func newLocal(st store.Store) *identity.Local {
	return identity.NewLocal(st, config.LocalAuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
}

func TestLocal_CreateAccount(t *testing.T) {
	st := newUserStore()
	l := newLocal(st)

	acct, err := l.CreateAccount(context.Background(), " Ana@Example.edu ", "hunter22", " Ana ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.edu", acct.Email)
	assert.Equal(t, "Ana", acct.DisplayName)

	stored := st.users["ana@example.edu"]
	assert.NotEqual(t, "hunter22", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestLocal_CreateAccountValidation(t *testing.T) {
	l := newLocal(newUserStore())
	ctx := context.Background()

	_, err := l.CreateAccount(ctx, "not-an-email", "hunter22", "")
	assert.ErrorIs(t, err, identity.ErrInvalidEmail)

	_, err = l.CreateAccount(ctx, "Ana <ana@example.edu>", "hunter22", "")
	assert.ErrorIs(t, err, identity.ErrInvalidEmail)

	_, err = l.CreateAccount(ctx, "ana@example.edu", "12345", "")
	assert.ErrorIs(t, err, identity.ErrWeakPassword)
}

func TestLocal_CreateAccountDuplicate(t *testing.T) {
	l := newLocal(newUserStore())
	ctx := context.Background()

	_, err := l.CreateAccount(ctx, "ana@example.edu", "hunter22", "")
	require.NoError(t, err)
	_, err = l.CreateAccount(ctx, "ANA@example.edu", "other-pass", "")
	assert.ErrorIs(t, err, identity.ErrEmailExists)
}

func TestLocal_AuthenticateAndVerify(t *testing.T) {
	l := newLocal(newUserStore())
	ctx := context.Background()

	_, err := l.CreateAccount(ctx, "ana@example.edu", "hunter22", "Ana")
	require.NoError(t, err)

	sess, err := l.Authenticate(ctx, "Ana@example.edu", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.edu", sess.Email)
	assert.Equal(t, "Ana", sess.DisplayName)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)

	userID, err := l.Verify(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.edu", userID)
}

func TestLocal_AuthenticateRejectsBadCredentials(t *testing.T) {
	l := newLocal(newUserStore())
	ctx := context.Background()
	_, err := l.CreateAccount(ctx, "ana@example.edu", "hunter22", "")
	require.NoError(t, err)

	_, err = l.Authenticate(ctx, "ana@example.edu", "wrong-pass")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = l.Authenticate(ctx, "nobody@example.edu", "hunter22")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = l.Authenticate(ctx, "garbage", "hunter22")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestLocal_VerifyRejectsForeignTokens(t *testing.T) {
	l := newLocal(newUserStore())
	ctx := context.Background()

	sign := func(secret string, method jwtlib.SigningMethod, claims identity.Claims) string {
		tok, err := jwtlib.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}
	valid := identity.Claims{
		Email: "ana@example.edu",
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "integrity",
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	expired := valid
	expired.ExpiresAt = jwtlib.NewNumericDate(time.Now().Add(-time.Minute))

	otherIssuer := valid
	otherIssuer.Issuer = "someone-else"

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := map[string]string{
		"wrong secret":   sign("other-secret", jwtlib.SigningMethodHS256, valid),
		"expired":        sign("test-secret", jwtlib.SigningMethodHS256, expired),
		"other issuer":   sign("test-secret", jwtlib.SigningMethodHS256, otherIssuer),
		"missing expiry": sign("test-secret", jwtlib.SigningMethodHS256, noExpiry),
		"not a jwt":      "abc.def",
		"empty":          "",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := l.Verify(ctx, tok)
			assert.ErrorIs(t, err, identity.ErrInvalidToken)
		})
	}

	_, err := l.Verify(ctx, sign("test-secret", jwtlib.SigningMethodHS256, valid))
	assert.NoError(t, err)
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	svc, err := identity.New(ctx, config.IdentityConfig{Provider: "local", Local: config.LocalAuthConfig{JWTSecret: "s"}}, newUserStore())
	require.NoError(t, err)
	assert.IsType(t, &identity.Local{}, svc)

	svc, err = identity.New(ctx, config.IdentityConfig{Provider: "firebase", Firebase: config.FirebaseConfig{ProjectID: "p", WebAPIKey: "k"}}, nil)
	require.NoError(t, err)
	assert.IsType(t, &identity.Firebase{}, svc)

	_, err = identity.New(ctx, config.IdentityConfig{Provider: "ldap"}, nil)
	require.Error(t, err)
}
