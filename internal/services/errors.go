package services

import (
	"errors"
	"fmt"

	"studydesk-backend/internal/models"
)

// ErrGenerationUnavailable is returned when no LLM backend credential is
// configured. Distinct from GenerationError so callers can tell a
// configuration problem from a runtime one.
var ErrGenerationUnavailable = errors.New("generation backend is not configured")

// ErrUnsupportedFormat is returned for files whose extension maps to no
// known document format.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractionError wraps a format-specific text extraction failure.
type ExtractionError struct {
	Format models.DocumentFormat
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// GenerationError wraps a transport or provider failure from the LLM
// backend, including timeouts.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation request failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedOutputError signals LLM output that failed JSON-array parsing or
// per-item schema validation. Nothing is persisted when it is returned.
type MalformedOutputError struct {
	Reason string
}

func (e *MalformedOutputError) Error() string {
	return "malformed generation output: " + e.Reason
}

// Service-level errors mapped to HTTP statuses by the handlers.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }
