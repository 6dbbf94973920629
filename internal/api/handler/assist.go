package handler

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/integrity/internal/api/response"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// Assistant is the subset of the integrity service the assist handlers use.
type Assistant interface {
	Assist(ctx context.Context, kind models.TaskKind, subject string) (string, error)
}

type assistResponse struct {
	Kind models.TaskKind `json:"kind"`
	Text string          `json:"text"`
}

// NewAssistHandler returns an http.HandlerFunc for POST /api/v1/assist/{task}
// bound to one assistant task kind.
func NewAssistHandler(svc Assistant, kind models.TaskKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); !ok {
			return
		}

		var req struct {
			Text string `json:"text"`
		}
		if !decode(w, r, &req) {
			return
		}

		text, err := svc.Assist(r.Context(), kind, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, assistResponse{Kind: kind, Text: text})
	}
}
