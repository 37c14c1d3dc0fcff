// Package errors provides structured error types for archmind.
//
// Graph content never produces an error: unresolvable references are
// dropped, missing metadata falls back to defaults and engine failures fall
// back to the layered layout. The codes here cover the outer surfaces,
// such as bad requests, storage failures and cancellation.
//
// # Error Codes
//
//   - INVALID_INPUT, UNKNOWN_STRATEGY: caller mistakes
//   - LAYOUT_ENGINE, STATE_CORRUPT: degraded results, usually logged
//   - STORAGE, CACHE: backend I/O
//   - TIMEOUT, CANCELED: context expiry
//   - INTERNAL: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid repository: %s", repo)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save state for %s", repo)
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeUnknownStrategy Code = "UNKNOWN_STRATEGY"

	// Degraded results
	ErrCodeLayoutEngine Code = "LAYOUT_ENGINE"
	ErrCodeStateCorrupt Code = "STATE_CORRUPT"

	// Backends
	ErrCodeStorage Code = "STORAGE"
	ErrCodeCache   Code = "CACHE"

	// Context
	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeCanceled Code = "CANCELED"

	ErrCodeInternal Code = "INTERNAL"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// FromContext wraps a context error as TIMEOUT or CANCELED. It returns nil
// for a nil error and wraps anything else as INTERNAL.
func FromContext(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(ErrCodeTimeout, err, format, args...)
	case errors.Is(err, context.Canceled):
		return Wrap(ErrCodeCanceled, err, format, args...)
	default:
		return Wrap(ErrCodeInternal, err, format, args...)
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeUnknownStrategy:
		return http.StatusBadRequest
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeCanceled:
		return 499 // client closed request
	case ErrCodeStorage, ErrCodeCache:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
