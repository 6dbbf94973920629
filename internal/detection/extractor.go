// Package detection turns free-form generator answers into closed-enum
// confidence verdicts and assembles them into persistable reports.
package detection

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kiranshivaraju/integrity/pkg/models"
)

// Extractor derives a ConfidenceLevel from generator output.
// Implementations must be total: any input yields one of the four levels.
type Extractor interface {
	Extract(text string) models.ConfidenceLevel
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(text string) models.ConfidenceLevel

func (f ExtractorFunc) Extract(text string) models.ConfidenceLevel { return f(text) }

var confidenceWord = regexp.MustCompile(`(?i)high|medium|low`)

// KeywordExtractor returns the first whole-word, case-insensitive occurrence
// of high, medium or low, scanning left to right.
type KeywordExtractor struct{}

func (KeywordExtractor) Extract(text string) models.ConfidenceLevel {
	return Extract(text)
}

// Extract is the default extraction strategy.
func Extract(text string) models.ConfidenceLevel {
	for _, loc := range confidenceWord.FindAllStringIndex(text, -1) {
		if !isWordBoundary(text, loc[0], loc[1]) {
			continue
		}
		switch strings.ToLower(text[loc[0]:loc[1]]) {
		case "high":
			return models.ConfidenceHigh
		case "medium":
			return models.ConfidenceMedium
		case "low":
			return models.ConfidenceLow
		}
	}
	return models.ConfidenceUnknown
}

// isWordBoundary reports whether text[start:end] is not glued to a letter,
// digit or underscore on either side. Unicode letters count, so "highé" is
// not a match.
func isWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var _ Extractor = KeywordExtractor{}
