package ai

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kiranshivaraju/integrity/internal/detection"
	"github.com/kiranshivaraju/integrity/internal/prompt"
	"github.com/kiranshivaraju/integrity/internal/store"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

// ErrMissingUser is returned when an operation needs an owner and none was given.
var ErrMissingUser = errors.New("user id is required")

// HistoryOrder controls how history listings are sorted.
type HistoryOrder string

const (
	// OrderNewestFirst sorts by CreatedAt descending.
	OrderNewestFirst HistoryOrder = "desc"
	// OrderOldestFirst sorts by CreatedAt ascending.
	OrderOldestFirst HistoryOrder = "asc"
	// OrderStore keeps the order the store returned.
	OrderStore HistoryOrder = "store"
)

// IntegrityService runs the assistant and detection pipelines:
// prompt → generation → extraction → classification → persistence.
type IntegrityService struct {
	client    *Client
	store     store.Store
	assembler *detection.Assembler
	order     HistoryOrder
	now       func() time.Time
}

// NewIntegrityService creates a new IntegrityService.
func NewIntegrityService(client *Client, st store.Store, asm *detection.Assembler, order HistoryOrder) *IntegrityService {
	if asm == nil {
		asm = detection.NewAssembler(nil, nil)
	}
	if order == "" {
		order = OrderNewestFirst
	}
	return &IntegrityService{
		client:    client,
		store:     st,
		assembler: asm,
		order:     order,
		now:       time.Now,
	}
}

// Order reports how history listings are sorted.
func (s *IntegrityService) Order() HistoryOrder { return s.order }

// Assist runs one of the assistant tasks and returns the generated text.
// A failed generation is returned as *models.GenerationError.
func (s *IntegrityService) Assist(ctx context.Context, kind models.TaskKind, subject string) (string, error) {
	switch kind {
	case models.TaskBreakdown, models.TaskFeedback, models.TaskSourceSuggestion:
	default:
		return "", fmt.Errorf("%w: %q is not an assistant task", prompt.ErrUnknownTask, kind)
	}

	p, err := prompt.ForRequest(models.AnalysisRequest{SubjectText: subject, Kind: kind})
	if err != nil {
		return "", err
	}

	outcome := s.client.Generate(ctx, p)
	if !outcome.Success {
		return "", outcome.Err()
	}
	return outcome.Text, nil
}

// Breakdown splits an assignment prompt into sections.
func (s *IntegrityService) Breakdown(ctx context.Context, assignment string) (string, error) {
	return s.Assist(ctx, models.TaskBreakdown, assignment)
}

// Feedback critiques an essay draft.
func (s *IntegrityService) Feedback(ctx context.Context, draft string) (string, error) {
	return s.Assist(ctx, models.TaskFeedback, draft)
}

// SuggestSources proposes references for a topic.
func (s *IntegrityService) SuggestSources(ctx context.Context, topic string) (string, error) {
	return s.Assist(ctx, models.TaskSourceSuggestion, topic)
}

// DetectAI estimates whether a draft is machine-generated and persists the
// resulting report. Nothing is persisted when generation fails.
func (s *IntegrityService) DetectAI(ctx context.Context, userID, text string) (*models.DetectionReport, error) {
	return s.detect(ctx, models.OriginDraft, models.TaskAIDetection, userID, text)
}

// DetectWeb is DetectAI for text captured from a web page.
func (s *IntegrityService) DetectWeb(ctx context.Context, userID, text string) (*models.DetectionReport, error) {
	return s.detect(ctx, models.OriginWeb, models.TaskWebDetection, userID, text)
}

func (s *IntegrityService) detect(ctx context.Context, origin models.Origin, kind models.TaskKind, userID, text string) (*models.DetectionReport, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}

	p, err := prompt.ForRequest(models.AnalysisRequest{SubjectText: text, Kind: kind})
	if err != nil {
		return nil, err
	}

	outcome := s.client.Generate(ctx, p)
	report, err := s.assembler.AssembleWithOrigin(origin, userID, text, outcome)
	if err != nil {
		return nil, err
	}

	id, err := s.store.AppendDetectionReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("storing detection report: %w", err)
	}
	report.ID = id
	return report, nil
}

// DetectionHistory lists the user's reports, optionally restricted to one
// origin, sorted by the configured order.
func (s *IntegrityService) DetectionHistory(ctx context.Context, userID string, origin models.Origin) ([]*models.DetectionReport, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}

	all, err := s.store.ListDetectionReports(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing detection reports: %w", err)
	}

	reports := make([]*models.DetectionReport, 0, len(all))
	for _, r := range all {
		if origin != "" && r.Origin != origin {
			continue
		}
		if !r.Confidence.Valid() {
			r.Confidence = models.ConfidenceUnknown
		}
		r.Indicator = detection.Classify(r.Confidence)
		reports = append(reports, r)
	}

	sortByCreated(reports, s.order, func(r *models.DetectionReport) time.Time { return r.CreatedAt })
	return reports, nil
}

// SaveSession persists a breakdown/feedback session and returns it with its
// store-assigned ID.
func (s *IntegrityService) SaveSession(ctx context.Context, rec models.SessionRecord) (*models.SessionRecord, error) {
	if strings.TrimSpace(rec.UserID) == "" {
		return nil, ErrMissingUser
	}
	if strings.TrimSpace(rec.Prompt) == "" {
		return nil, fmt.Errorf("%w: session prompt is empty", prompt.ErrInvalidInput)
	}

	rec.CreatedAt = models.Timestamp(s.now())
	id, err := s.store.AppendSession(ctx, &rec)
	if err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	rec.ID = id
	return &rec, nil
}

// SessionHistory lists the user's sessions sorted by the configured order.
func (s *IntegrityService) SessionHistory(ctx context.Context, userID string) ([]*models.SessionRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}

	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	sortByCreated(sessions, s.order, func(r *models.SessionRecord) time.Time { return r.CreatedAt })
	return sessions, nil
}

func sortByCreated[T any](items []T, order HistoryOrder, created func(T) time.Time) {
	switch order {
	case OrderNewestFirst:
		slices.SortStableFunc(items, func(a, b T) int { return created(b).Compare(created(a)) })
	case OrderOldestFirst:
		slices.SortStableFunc(items, func(a, b T) int { return created(a).Compare(created(b)) })
	}
}
