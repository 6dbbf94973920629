package handler

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/integrity/internal/ai"
	"github.com/kiranshivaraju/integrity/internal/api/response"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// SessionKeeper is the subset of the integrity service the session handlers use.
type SessionKeeper interface {
	SaveSession(ctx context.Context, rec models.SessionRecord) (*models.SessionRecord, error)
	SessionHistory(ctx context.Context, userID string) ([]*models.SessionRecord, error)
	Order() ai.HistoryOrder
}

type sessionRequest struct {
	Prompt    string `json:"prompt"`
	Breakdown string `json:"breakdown"`
	Feedback  string `json:"feedback"`
}

// NewSaveSessionHandler returns an http.HandlerFunc for POST /api/v1/sessions.
func NewSaveSessionHandler(svc SessionKeeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req sessionRequest
		if !decode(w, r, &req) {
			return
		}

		rec, err := svc.SaveSession(r.Context(), models.SessionRecord{
			UserID:    userID,
			Prompt:    req.Prompt,
			Breakdown: req.Breakdown,
			Feedback:  req.Feedback,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		response.Created(w, rec)
	}
}

// NewSessionHistoryHandler returns an http.HandlerFunc for GET /api/v1/sessions.
func NewSessionHistoryHandler(svc SessionKeeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		sessions, err := svc.SessionHistory(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		if sessions == nil {
			sessions = []*models.SessionRecord{}
		}
		response.Collection(w, sessions, response.ListMeta{Count: len(sessions), Order: string(svc.Order())})
	}
}
