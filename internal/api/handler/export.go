package handler

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/integrity/internal/api/response"
	"github.com/kiranshivaraju/integrity/internal/export"
)

// ReportExporter renders and stores a session report.
type ReportExporter interface {
	Export(ctx context.Context, userID, prompt, breakdown, feedback string) (*export.Artifact, []byte, error)
}

// NewExportHandler returns an http.HandlerFunc for POST /api/v1/export.
// Clients that accept application/pdf get the document itself; everyone else
// gets the stored artifact's metadata.
func NewExportHandler(exp ReportExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req sessionRequest
		if !decode(w, r, &req) {
			return
		}

		art, data, err := exp.Export(r.Context(), userID, req.Prompt, req.Breakdown, req.Feedback)
		if err != nil {
			writeError(w, err)
			return
		}

		if acceptsPDF(r) {
			response.Attachment(w, export.ContentType, art.Key, data)
			return
		}
		response.Created(w, art)
	}
}

func acceptsPDF(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == export.ContentType {
			return true
		}
	}
	return false
}
