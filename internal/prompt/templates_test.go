package prompt_test

import (
	"strings"
	"testing"

	"github.com/kiranshivaraju/integrity/internal/prompt"
	"github.com/kiranshivaraju/integrity/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_RejectsBlankSubject(t *testing.T) {
	for _, subject := range []string{"", " ", "\n\t  \r\n"} {
		_, err := prompt.Build(models.TaskAIDetection, subject)
		assert.ErrorIs(t, err, prompt.ErrInvalidInput, "subject %q", subject)
	}
}

func TestBuild_UnknownTask(t *testing.T) {
	_, err := prompt.Build(models.TaskKind("poetry"), "some text")
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrUnknownTask)
}

func TestBuild_EmbedsSubjectForEveryKind(t *testing.T) {
	kinds := []models.TaskKind{
		models.TaskBreakdown,
		models.TaskFeedback,
		models.TaskSourceSuggestion,
		models.TaskAIDetection,
		models.TaskWebDetection,
	}
	subject := "The causes of the French Revolution"

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			p, err := prompt.Build(kind, subject)
			require.NoError(t, err)
			assert.Contains(t, p, subject)
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a, err := prompt.Build(models.TaskFeedback, "draft body")
	require.NoError(t, err)
	b, err := prompt.Build(models.TaskFeedback, "draft body")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuild_DetectionAsksForConfidenceWords(t *testing.T) {
	p, err := prompt.Build(models.TaskAIDetection, "essay")
	require.NoError(t, err)

	assert.Contains(t, p, "written by an AI")
	assert.Contains(t, p, "reasoning")
	for _, word := range []string{"High", "Medium", "Low"} {
		assert.Contains(t, p, word)
	}
}

func TestBuild_SubjectWithFormatVerbsIsVerbatim(t *testing.T) {
	subject := "100% original %s %d essay"
	p, err := prompt.Build(models.TaskBreakdown, subject)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, "Assignment: "+subject))
}

func TestForRequest(t *testing.T) {
	p, err := prompt.ForRequest(models.AnalysisRequest{SubjectText: "topic", Kind: models.TaskSourceSuggestion})
	require.NoError(t, err)
	assert.Contains(t, p, `"topic"`)

	_, err = prompt.ForRequest(models.AnalysisRequest{Kind: models.TaskSourceSuggestion})
	assert.ErrorIs(t, err, prompt.ErrInvalidInput)
}
