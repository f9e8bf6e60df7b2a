package errors

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingAPIKey = errors.New("provider credentials are not configured")

	// Provider errors
	ErrUnexpectedResponse = errors.New("provider returned an unexpected response")
	ErrProviderUnavailable = errors.New("payment provider unavailable")

	// Webhook errors
	ErrInvalidWebhookToken = errors.New("invalid webhook token")
	ErrInvalidWebhookBody  = errors.New("invalid webhook body")

	// Charge errors
	ErrUnsupportedBillingType = errors.New("unsupported billing type")

	// Media errors
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMediaTooLarge        = errors.New("media exceeds maximum size")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ProviderError is a non-2xx answer from an upstream API. Message is already
// suitable for the end user; StatusCode is the upstream HTTP status.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.StatusCode)
}

// NewProviderError creates a new provider error
func NewProviderError(provider string, status int, message string) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: status,
		Message:    message,
	}
}
