// Package models contains shared data models used across the integrity service.
package models

import "context"

// Generator is the core interface that all text-generation integrations must implement.
// Never call specific providers directly; always inject this interface.
type Generator interface {
	// Generate sends one prompt and returns the model's full text response.
	Generate(ctx context.Context, prompt string) (string, error)
	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string
}

// TaskKind selects the prompt template used for a request.
type TaskKind string

const (
	TaskBreakdown        TaskKind = "breakdown"
	TaskFeedback         TaskKind = "feedback"
	TaskSourceSuggestion TaskKind = "source_suggestion"
	TaskAIDetection      TaskKind = "ai_detection"
	TaskWebDetection     TaskKind = "web_detection"
)

// Valid reports whether k is a known task kind.
func (k TaskKind) Valid() bool {
	switch k {
	case TaskBreakdown, TaskFeedback, TaskSourceSuggestion, TaskAIDetection, TaskWebDetection:
		return true
	}
	return false
}

// AnalysisRequest is the input to one pipeline invocation. It is constructed
// per call and discarded once a result has been produced.
type AnalysisRequest struct {
	SubjectText string
	Kind        TaskKind
}
