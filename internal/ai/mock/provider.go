package mock

import (
	"context"
	"sync"

	"github.com/kiranshivaraju/integrity/pkg/models"
)

// MockProvider satisfies models.Generator for testing. It records every
// prompt it receives.
type MockProvider struct {
	Name_        string
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", nil
}

// Calls returns how many times Generate was invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of the prompts received so far.
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// NewMockProvider returns a MockProvider that always answers with a
// Medium-confidence assessment.
func NewMockProvider() *MockProvider {
	return NewTextProvider("Mixed signals: uniform sentence length but personal anecdotes. Confidence: Medium")
}

// NewTextProvider returns a MockProvider that always answers with text.
func NewTextProvider(text string) *MockProvider {
	return &MockProvider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return text, nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		GenerateFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
}

// Step is one scripted reply of a SequenceProvider.
type Step struct {
	Text string
	Err  error
}

// NewSequenceProvider replays steps in order and repeats the last one once
// the script is exhausted.
func NewSequenceProvider(steps ...Step) *MockProvider {
	var mu sync.Mutex
	i := 0
	return &MockProvider{
		Name_: "mock-sequence",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			if len(steps) == 0 {
				return "", nil
			}
			s := steps[i]
			if i < len(steps)-1 {
				i++
			}
			return s.Text, s.Err
		},
	}
}

// Compile-time check that MockProvider implements Generator.
var _ models.Generator = (*MockProvider)(nil)
