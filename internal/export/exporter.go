package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyReport is returned when a report has no content beyond the header.
var ErrEmptyReport = errors.New("report has no prompt, breakdown or feedback")

// Exporter renders reports and hands them to a Sink.
type Exporter struct {
	sink Sink
	now  func() time.Time
}

// NewExporter wraps sink. A nil now uses time.Now.
func NewExporter(sink Sink, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{sink: sink, now: now}
}

// Export renders the session content for userID and stores it. The rendered
// bytes are returned alongside the artifact so callers can stream them.
func (e *Exporter) Export(ctx context.Context, userID, prompt, breakdown, feedback string) (*Artifact, []byte, error) {
	if strings.TrimSpace(prompt+breakdown+feedback) == "" {
		return nil, nil, ErrEmptyReport
	}

	data, err := RenderReport(Report{
		UserID:    userID,
		Prompt:    prompt,
		Breakdown: breakdown,
		Feedback:  feedback,
		CreatedAt: e.now(),
	})
	if err != nil {
		return nil, nil, err
	}

	art, err := e.sink.Put(ctx, FileName(userID), data)
	if err != nil {
		return nil, nil, fmt.Errorf("storing report: %w", err)
	}
	return art, data, nil
}
