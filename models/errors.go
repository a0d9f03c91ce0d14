package models

import "fmt"

// Pipeline phases used to tag ScrapeErrors.
const (
	PhaseFetch    = "fetch"
	PhaseRender   = "render"
	PhaseParse    = "parse"
	PhaseInteract = "interact"
)

// ScrapeError is one failure captured during a scrape. Errors are appended
// to the document's error list; prior entries are never removed or mutated.
type ScrapeError struct {
	Message    string `json:"message"`
	Phase      string `json:"phase"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (e ScrapeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Message)
}

// NewScrapeError creates a phase-tagged ScrapeError.
func NewScrapeError(phase, message string) ScrapeError {
	return ScrapeError{Phase: phase, Message: message}
}

// WithSuggestion returns a copy of the error carrying a remediation hint.
func (e ScrapeError) WithSuggestion(s string) ScrapeError {
	e.Suggestion = s
	return e
}

// ErrorDetail is the structured error in API responses for requests that
// never reached the engine (bad input, rate limits, auth).
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// API error codes.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)
