package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderNotFound is returned when a provider is not registered
	ErrProviderNotFound = errors.New("provider not found")

	// ErrProviderAlreadyRegistered is returned when trying to register a duplicate provider
	ErrProviderAlreadyRegistered = errors.New("provider already registered")

	// ErrUnknownProvider is returned for names that match no provider kind
	ErrUnknownProvider = errors.New("unknown provider")
)

// TransportError reports a failed network exchange: connection failure,
// timeout, rate limiter cancellation or a non-2xx status.
type TransportError struct {
	Provider   Identity
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s transport error", e.Provider)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// NewTransportError creates a new transport error
func NewTransportError(provider Identity, statusCode int, message string, cause error) *TransportError {
	return &TransportError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

// ResponseShapeError reports a reply that decoded but lacked the fields the
// adapter expects.
type ResponseShapeError struct {
	Provider Identity
	Field    string
	Cause    error
}

// Error implements the error interface
func (e *ResponseShapeError) Error() string {
	msg := fmt.Sprintf("%s returned an unexpected response shape", e.Provider)
	if e.Field != "" {
		msg += fmt.Sprintf(" (missing %s)", e.Field)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping
func (e *ResponseShapeError) Unwrap() error {
	return e.Cause
}

// NewResponseShapeError creates a new response shape error
func NewResponseShapeError(provider Identity, field string, cause error) *ResponseShapeError {
	return &ResponseShapeError{
		Provider: provider,
		Field:    field,
		Cause:    cause,
	}
}

// IsTransportError checks if err wraps a *TransportError
func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsResponseShapeError checks if err wraps a *ResponseShapeError
func IsResponseShapeError(err error) bool {
	var target *ResponseShapeError
	return errors.As(err, &target)
}
