package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAllProvidersExhausted indicates that every enabled provider failed (or
// none were configured) during a single rate resolution.
var ErrAllProvidersExhausted = errors.New("all providers exhausted")

// ProviderFailure records how one provider failed during a resolution.
type ProviderFailure struct {
	Provider string `json:"provider"`
	Kind     string `json:"kind"` // not_supported | unavailable | invalid_response
	Message  string `json:"message"`
}

// ExhaustedError wraps ErrAllProvidersExhausted with the per-provider
// failure list for diagnostics. Match with errors.Is(err,
// ErrAllProvidersExhausted) and extract details with errors.As.
type ExhaustedError struct {
	Failures []ProviderFailure
}

func (e *ExhaustedError) Error() string {
	if len(e.Failures) == 0 {
		return "all providers exhausted: no enabled providers configured"
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s (%s)", f.Provider, f.Kind)
	}
	return "all providers exhausted: " + strings.Join(parts, ", ")
}

func (e *ExhaustedError) Unwrap() error { return ErrAllProvidersExhausted }
