package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

// ConfigurationError means no provider can serve the request. No network
// call was made.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "llm routing configuration error: " + e.Message
}

// AllProvidersExhaustedError is terminal: the selected provider and every
// fallback candidate failed, or the caller's context ended first. Cause holds
// the last provider error or the context error.
type AllProvidersExhaustedError struct {
	Attempted []providers.Identity
	Cause     error
}

func (e *AllProvidersExhaustedError) Error() string {
	names := make([]string, len(e.Attempted))
	for i, id := range e.Attempted {
		names[i] = string(id)
	}
	msg := fmt.Sprintf("all providers exhausted (attempted: %s)", strings.Join(names, ", "))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AllProvidersExhaustedError) Unwrap() error {
	return e.Cause
}

// IsConfigurationError checks if err wraps a *ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsAllProvidersExhausted checks if err wraps an *AllProvidersExhaustedError
func IsAllProvidersExhausted(err error) bool {
	var target *AllProvidersExhaustedError
	return errors.As(err, &target)
}
