package detection

import (
	"fmt"
	"time"

	"github.com/kiranshivaraju/integrity/pkg/models"
)

// AssemblyError is returned when a report cannot be built because the
// generation failed. It unwraps to the underlying *models.GenerationError.
type AssemblyError struct {
	Reason models.ErrorKind
	Cause  error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble detection report: %s", e.Cause)
}

func (e *AssemblyError) Unwrap() error { return e.Cause }

// Assembler combines extraction and classification into DetectionReports.
type Assembler struct {
	extractor Extractor
	now       func() time.Time
}

// NewAssembler creates an Assembler. A nil extractor selects KeywordExtractor
// and a nil clock selects time.Now.
func NewAssembler(ex Extractor, now func() time.Time) *Assembler {
	if ex == nil {
		ex = KeywordExtractor{}
	}
	if now == nil {
		now = time.Now
	}
	return &Assembler{extractor: ex, now: now}
}

// Assemble builds a draft-origin report. It never touches storage.
func (a *Assembler) Assemble(userID, sourceText string, outcome models.GenerationOutcome) (*models.DetectionReport, error) {
	return a.AssembleWithOrigin(models.OriginDraft, userID, sourceText, outcome)
}

// AssembleWithOrigin builds a report tagged with origin. A failed outcome
// yields *AssemblyError and no report.
func (a *Assembler) AssembleWithOrigin(origin models.Origin, userID, sourceText string, outcome models.GenerationOutcome) (*models.DetectionReport, error) {
	if !outcome.Success {
		return nil, &AssemblyError{Reason: outcome.ErrorKind, Cause: outcome.Err()}
	}

	level := a.extractor.Extract(outcome.Text)
	if !level.Valid() {
		level = models.ConfidenceUnknown
	}

	return &models.DetectionReport{
		UserID:      userID,
		SourceText:  sourceText,
		Confidence:  level,
		Explanation: outcome.Text,
		Indicator:   Classify(level),
		Origin:      origin,
		CreatedAt:   models.Timestamp(a.now()),
	}, nil
}
