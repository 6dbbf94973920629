// Package prompt builds the instruction strings sent verbatim to the text
// generator. Every builder is pure and deterministic.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/integrity/pkg/models"
)

var (
	// ErrInvalidInput is returned for empty or whitespace-only subject text.
	ErrInvalidInput = errors.New("subject text must not be empty")
	// ErrUnknownTask is returned for a task kind with no template.
	ErrUnknownTask = errors.New("unknown task kind")
)

const breakdownTemplate = `You are an academic writing guide. Break this assignment into logical sections, each with a heading, purpose, and suggested word count.

Format your response as:
## Section Title - Purpose (Word Count)
Brief description of what should be covered in this section.

Make sure to provide a comprehensive breakdown that helps students structure their work effectively.

Assignment: %s`

const feedbackTemplate = `You are an academic writing coach. Review the following draft for:

1. **Originality and Critical Thinking**: Does the content show original thought and analysis?
2. **Clarity and Academic Tone**: Is the writing clear, professional, and appropriate for academic context?
3. **Logical Flow and Structure**: Does the argument flow logically from point to point?
4. **Evidence and Support**: Are claims properly supported with reasoning or evidence?
5. **Areas for Improvement**: What specific areas need enhancement?

Provide section-wise feedback with specific, actionable suggestions.

Draft:
%s`

const sourcesTemplate = `Suggest 5 reliable and ethical academic resources (books, research papers, reputable websites, databases) that a student can use for research on the topic: "%s"

For each resource, provide:
1. Title/Name
2. Author(s) or Organization
3. Brief description of relevance
4. Proper citation format (APA style)
5. Why this source is credible and useful

Focus on academic credibility and relevance to the topic.`

// The confidence sentence is what the detection extractor keys on.
const detectionTemplate = `You are an academic integrity agent. A student submitted this essay draft:

%s

Does this appear to be written by an AI? Analyze the following aspects:
1. Writing patterns and style consistency
2. Depth of personal insight and critical thinking
3. Use of generic phrases or overly polished language
4. Logical flow and argumentation structure
5. Evidence of human experience and perspective

Explain your reasoning, then state your confidence that the text is AI-generated using exactly one of the words High, Medium, or Low.`

const webDetectionTemplate = `You are an academic integrity agent. Analyze the following content captured from a web page and determine if it appears AI-generated. Give your reasoning, then state your confidence using exactly one of the words High, Medium, or Low.

%s`

var templates = map[models.TaskKind]string{
	models.TaskBreakdown:        breakdownTemplate,
	models.TaskFeedback:         feedbackTemplate,
	models.TaskSourceSuggestion: sourcesTemplate,
	models.TaskAIDetection:      detectionTemplate,
	models.TaskWebDetection:     webDetectionTemplate,
}

// Build returns the prompt for kind with subject embedded.
func Build(kind models.TaskKind, subject string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrInvalidInput
	}
	tmpl, ok := templates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTask, kind)
	}
	return fmt.Sprintf(tmpl, subject), nil
}

// ForRequest is Build applied to an AnalysisRequest.
func ForRequest(req models.AnalysisRequest) (string, error) {
	return Build(req.Kind, req.SubjectText)
}
