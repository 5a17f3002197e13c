// Package errors provides standardized error handling for the suggestion API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Startup errors: the process must not start.
	ErrCodeMissingCredentials ErrorCode = "CONFIG_MISSING_CREDENTIALS"

	// Upstream dependency errors, surfaced to callers as 502.
	ErrCodeAuthFailed    ErrorCode = "EBAY_AUTH_FAILED"
	ErrCodeSearchFailed  ErrorCode = "EBAY_SEARCH_FAILED"
	ErrCodeSearchTimeout ErrorCode = "EBAY_SEARCH_TIMEOUT"

	// Client errors, surfaced as 400.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMissingCredentialsError creates a fatal startup configuration error.
func NewMissingCredentialsError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingCredentials,
		Message:   "Required credentials are not configured",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthError creates an error for a failed client-credentials exchange.
// Upstream status and body are kept in Details for server-side diagnostics.
func NewAuthError(status int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthFailed,
		Message:   "eBay OAuth token exchange failed",
		Details:   fmt.Sprintf("status: %d, body: %s", status, body),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthTransportError creates an auth error for a transport-level failure.
func NewAuthTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthFailed,
		Message:   "eBay OAuth token exchange failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamError creates an error for a non-2xx search response.
func NewUpstreamError(status int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchFailed,
		Message:   "eBay search request failed",
		Details:   fmt.Sprintf("status: %d, body: %s", status, body),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamTransportError creates a search error for a transport failure.
func NewUpstreamTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchFailed,
		Message:   "eBay search request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamTimeoutError creates an error for a timed-out search call.
func NewUpstreamTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "eBay search timed out",
		Details:   "call exceeded the 30 second timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable client error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Invalid request payload",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Boundary Mapping
// ==========================

// AsStandardError unwraps err into a *StandardError, or nil.
func AsStandardError(err error) *StandardError {
	var se *StandardError
	if errors.As(err, &se) {
		return se
	}
	return nil
}

// HTTPStatus maps an error to the status code returned at the handler
// boundary. Unknown errors map to 500.
func HTTPStatus(err error) int {
	se := AsStandardError(err)
	if se == nil {
		return http.StatusInternalServerError
	}
	switch se.Code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeAuthFailed, ErrCodeSearchFailed, ErrCodeSearchTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
