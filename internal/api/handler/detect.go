package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/integrity/internal/ai"
	"github.com/kiranshivaraju/integrity/internal/api/response"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// Detector is the subset of the integrity service the detection handlers use.
type Detector interface {
	DetectAI(ctx context.Context, userID, text string) (*models.DetectionReport, error)
	DetectWeb(ctx context.Context, userID, text string) (*models.DetectionReport, error)
	DetectionHistory(ctx context.Context, userID string, origin models.Origin) ([]*models.DetectionReport, error)
	Order() ai.HistoryOrder
}

// NewDetectHandler returns an http.HandlerFunc for POST /api/v1/detect and
// POST /api/v1/detect/web.
func NewDetectHandler(svc Detector, origin models.Origin) http.HandlerFunc {
	run := svc.DetectAI
	if origin == models.OriginWeb {
		run = svc.DetectWeb
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req struct {
			Text string `json:"text"`
		}
		if !decode(w, r, &req) {
			return
		}

		report, err := run(r.Context(), userID, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		response.Created(w, report)
	}
}

// NewDetectionHistoryHandler returns an http.HandlerFunc for
// GET /api/v1/detect/history. The optional origin query parameter filters
// by entry point.
func NewDetectionHistoryHandler(svc Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		origin := models.Origin(strings.ToLower(r.URL.Query().Get("origin")))
		switch origin {
		case "", models.OriginDraft, models.OriginWeb:
		default:
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"origin must be one of draft, web", nil)
			return
		}

		reports, err := svc.DetectionHistory(r.Context(), userID, origin)
		if err != nil {
			writeError(w, err)
			return
		}
		if reports == nil {
			reports = []*models.DetectionReport{}
		}
		response.Collection(w, reports, response.ListMeta{Count: len(reports), Order: string(svc.Order())})
	}
}
