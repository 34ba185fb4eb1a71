// Package errors provides standardized error handling for the draft
// coordination pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeClientRejection marks requests refused before any upstream
	// attempt, e.g. sensitive user-supplied context.
	ErrCodeClientRejection ErrorCode = "CLIENT_REJECTION"

	ErrCodeUpstreamTimeout  ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamError    ErrorCode = "UPSTREAM_ERROR"
	ErrCodeExhaustedRetries ErrorCode = "EXHAUSTED_RETRIES"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	Err       error     `json:"-"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Err
}

// ==========================
// 2. Error Constructors
// ==========================

// NewClientRejectionError creates a non-retryable rejection of the request
// itself. Nothing upstream was attempted.
func NewClientRejectionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeClientRejection,
		Message:   "Request rejected before generation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestBuildError marks a generation request that could not even be
// constructed. Nothing upstream was attempted and retrying cannot help.
func NewRequestBuildError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClientRejection,
		Message:   "Generation request could not be built",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Err:       err,
	}
}

// NewUpstreamTimeoutError creates a retryable upstream timeout error.
func NewUpstreamTimeoutError(attempt int) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamTimeout,
		Message:   "Upstream model call timed out",
		Details:   fmt.Sprintf("attempt: %d", attempt),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamError creates a retryable upstream failure carrying the HTTP
// status or transport error.
func NewUpstreamError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamError,
		Message:   "Upstream model call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Err:       err,
	}
}

// NewUpstreamStatusError creates a retryable error for a non-2xx response.
func NewUpstreamStatusError(status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamError,
		Message:   "Upstream model returned a non-OK status",
		Details:   fmt.Sprintf("status: %d", status),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExhaustedRetriesError is the terminal form of upstream failure after all
// attempts were consumed. The last attempt's error is surfaced verbatim.
func NewExhaustedRetriesError(attempts int, last error) *StandardError {
	details := fmt.Sprintf("attempts: %d", attempts)
	if last != nil {
		details = fmt.Sprintf("attempts: %d, last error: %s", attempts, last.Error())
	}
	return &StandardError{
		Code:      ErrCodeExhaustedRetries,
		Message:   "Upstream model failed after all retries",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Err:       last,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf extracts the ErrorCode from err, or empty if err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsRetryable reports whether err may be retried locally.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// IsTimeout reports whether err is an upstream timeout.
func IsTimeout(err error) bool {
	return CodeOf(err) == ErrCodeUpstreamTimeout
}
