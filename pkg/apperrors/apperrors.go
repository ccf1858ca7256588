// Package apperrors provides structured error types for the SLD editor.
//
// Every recoverable failure in the diagram engine carries a
// machine-readable code so the UI can decide how to present it:
// NOT_FOUND aborts the operation silently, INVALID_CONNECTION is shown
// to the user, VIEW_NOT_READY defers the operation until the view has
// been laid out.
package apperrors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// ErrCodeNotFound: an id does not resolve to a block or terminal.
	ErrCodeNotFound Code = "NOT_FOUND"

	// ErrCodeInvalidConnection: self-connection or missing terminal.
	ErrCodeInvalidConnection Code = "INVALID_CONNECTION"

	// ErrCodeViewNotReady: fit-to-content requested before the viewport
	// has a measured size.
	ErrCodeViewNotReady Code = "VIEW_NOT_READY"

	// ErrCodeInvalidInput: user or file input failed validation.
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodePersistence: project or catalog storage failed.
	ErrCodePersistence Code = "PERSISTENCE"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

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

// Is reports whether err carries the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, or "" if it is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
