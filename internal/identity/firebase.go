package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/kiranshivaraju/integrity/internal/config"
)

const (
	firebaseIssuerPrefix = "https://securetoken.google.com/"
	firebaseJWKSURL      = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

// Firebase talks to the Identity Toolkit REST API for sign-up and sign-in and
// verifies Firebase ID tokens against Google's published signing keys.
type Firebase struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	verifier *oidc.IDTokenVerifier
	now      func() time.Time
}

// NewFirebase creates a Firebase backend. A nil keySet fetches Google's
// signing keys on first use.
func NewFirebase(ctx context.Context, cfg config.FirebaseConfig, keySet oidc.KeySet) *Firebase {
	if keySet == nil {
		keySet = oidc.NewRemoteKeySet(ctx, firebaseJWKSURL)
	}
	verifier := oidc.NewVerifier(firebaseIssuerPrefix+cfg.ProjectID, keySet, &oidc.Config{
		ClientID:             cfg.ProjectID,
		SupportedSigningAlgs: []string{oidc.RS256},
	})
	return &Firebase{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.WebAPIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		verifier: verifier,
		now:      time.Now,
	}
}

type firebaseAuthRequest struct {
	Email             string `json:"email,omitempty"`
	Password          string `json:"password,omitempty"`
	IDToken           string `json:"idToken,omitempty"`
	DisplayName       string `json:"displayName,omitempty"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type firebaseAuthResponse struct {
	IDToken     string `json:"idToken"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	ExpiresIn   string `json:"expiresIn"`
	LocalID     string `json:"localId"`
}

type firebaseErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *Firebase) CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	var created firebaseAuthResponse
	err = f.call(ctx, "accounts:signUp", firebaseAuthRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &created)
	if err != nil {
		return nil, err
	}

	displayName = strings.TrimSpace(displayName)
	if displayName != "" {
		err = f.call(ctx, "accounts:update", firebaseAuthRequest{
			IDToken:     created.IDToken,
			DisplayName: displayName,
		}, nil)
		if err != nil {
			// The account exists at this point.
			slog.Warn("setting display name failed", "email", email, "error", err)
			displayName = ""
		}
	}

	return &Account{Email: email, DisplayName: displayName}, nil
}

func (f *Firebase) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var resp firebaseAuthResponse
	err = f.call(ctx, "accounts:signInWithPassword", firebaseAuthRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	secs, err := strconv.Atoi(resp.ExpiresIn)
	if err != nil {
		secs = 3600
	}
	return &Session{
		Token:       resp.IDToken,
		Email:       strings.ToLower(resp.Email),
		DisplayName: resp.DisplayName,
		ExpiresAt:   f.now().Add(time.Duration(secs) * time.Second).UTC(),
	}, nil
}

func (f *Firebase) Verify(ctx context.Context, raw string) (string, error) {
	tok, err := f.verifier.Verify(ctx, raw)
	if err != nil {
		return "", ErrInvalidToken
	}
	var claims struct {
		Email string `json:"email"`
	}
	if err := tok.Claims(&claims); err != nil || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return strings.ToLower(claims.Email), nil
}

// call POSTs body to an Identity Toolkit method and decodes the reply into out.
func (f *Firebase) call(ctx context.Context, method string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	u := fmt.Sprintf("%s/v1/%s?%s", f.baseURL, method, url.Values{"key": {f.apiKey}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var fe firebaseErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&fe); err != nil {
			return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		}
		return classifyFirebaseError(resp.StatusCode, fe.Error.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding identity response: %w", err)
	}
	return nil
}

// classifyFirebaseError maps Identity Toolkit error codes to sentinels. Codes
// may carry a suffix such as "WEAK_PASSWORD : Password should be ...".
func classifyFirebaseError(status int, message string) error {
	code, _, _ := strings.Cut(message, " ")
	switch code {
	case "EMAIL_EXISTS":
		return ErrEmailExists
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return ErrInvalidCredentials
	case "WEAK_PASSWORD":
		return ErrWeakPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return ErrInvalidEmail
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return ErrTooManyAttempts
	case "INVALID_ID_TOKEN", "TOKEN_EXPIRED":
		return ErrInvalidToken
	}
	return fmt.Errorf("%w: status %d: %s", ErrUnavailable, status, message)
}

var _ Service = (*Firebase)(nil)
