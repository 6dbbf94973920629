package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/integrity/internal/ai"
	mw "github.com/kiranshivaraju/integrity/internal/api/middleware"
	"github.com/kiranshivaraju/integrity/internal/api/response"
	"github.com/kiranshivaraju/integrity/internal/export"
	"github.com/kiranshivaraju/integrity/internal/identity"
	"github.com/kiranshivaraju/integrity/internal/prompt"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// maxBodyBytes bounds request bodies; essays fit comfortably.
const maxBodyBytes = 1 << 20

// decode reads a JSON body into v. It writes the 400 itself and reports
// whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return false
	}
	return true
}

// requireUser returns the authenticated user id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := mw.GetUserID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing user", nil)
		return "", false
	}
	return userID, true
}

// writeError maps service errors to the error envelope.
func writeError(w http.ResponseWriter, err error) {
	var genErr *models.GenerationError
	switch {
	case errors.Is(err, prompt.ErrInvalidInput), errors.Is(err, prompt.ErrUnknownTask):
		response.Error(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), nil)
	case errors.Is(err, ai.ErrMissingUser):
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing user", nil)
	case errors.As(err, &genErr):
		writeGenerationError(w, genErr)
	case errors.Is(err, export.ErrEmptyReport):
		response.Error(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), nil)
	case errors.Is(err, identity.ErrInvalidEmail), errors.Is(err, identity.ErrWeakPassword):
		response.Error(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), nil)
	case errors.Is(err, identity.ErrEmailExists):
		response.Error(w, http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
	case errors.Is(err, identity.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	case errors.Is(err, identity.ErrTooManyAttempts):
		response.Error(w, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many sign-in attempts, try again later", nil)
	case errors.Is(err, identity.ErrUnavailable):
		response.Error(w, http.StatusServiceUnavailable, "IDENTITY_UNAVAILABLE", "The identity provider is not available", nil)
	default:
		slog.Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}

func writeGenerationError(w http.ResponseWriter, e *models.GenerationError) {
	msg := strings.TrimSpace(e.Message)
	switch e.Kind {
	case models.ErrorKindQuotaExceeded:
		if msg == "" {
			msg = ai.QuotaExceededMessage
		}
		response.Error(w, http.StatusTooManyRequests, "QUOTA_EXCEEDED", msg, nil)
	case models.ErrorKindTransport:
		if msg == "" {
			msg = "The AI provider could not be reached"
		}
		response.Error(w, http.StatusBadGateway, "AI_TRANSPORT_ERROR", msg, nil)
	default:
		if msg == "" {
			msg = "The AI provider returned an error"
		}
		response.Error(w, http.StatusBadGateway, "AI_ERROR", msg, nil)
	}
}
