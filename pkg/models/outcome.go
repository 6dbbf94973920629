package models

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Generator implementations. Providers wrap their
// SDK errors with these so callers never depend on a specific SDK.
var (
	ErrQuotaExceeded = errors.New("generation quota exceeded")
	ErrTransport     = errors.New("generation transport failure")
)

// ErrorKind is the closed set of generation failure classes.
type ErrorKind string

const (
	ErrorKindQuotaExceeded ErrorKind = "quota_exceeded"
	ErrorKindTransport     ErrorKind = "transport_error"
	ErrorKindUnknown       ErrorKind = "unknown"
)

// GenerationOutcome is the result of one call to the text-generation service.
// Text is set iff Success; ErrorKind and ErrorMessage are set iff !Success.
type GenerationOutcome struct {
	Success      bool      `json:"success"`
	Text         string    `json:"text,omitempty"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Succeeded builds a successful outcome.
func Succeeded(text string) GenerationOutcome {
	return GenerationOutcome{Success: true, Text: text}
}

// Failed builds a failed outcome.
func Failed(kind ErrorKind, message string) GenerationOutcome {
	return GenerationOutcome{Success: false, ErrorKind: kind, ErrorMessage: message}
}

// Err returns nil for a successful outcome and a *GenerationError otherwise.
func (o GenerationOutcome) Err() error {
	if o.Success {
		return nil
	}
	return &GenerationError{Kind: o.ErrorKind, Message: o.ErrorMessage}
}

// GenerationError carries a failed outcome through error returns.
type GenerationError struct {
	Kind    ErrorKind
	Message string
}

func (e *GenerationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("generation failed: %s", e.Kind)
	}
	return fmt.Sprintf("generation failed: %s: %s", e.Kind, e.Message)
}
