// Package errors provides structured error types for pyright-node.
//
// This package defines error codes and types that enable:
//   - Consistent error handling between the library packages and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by the failure taxonomy the bootstrapper reports:
//   - INVALID_* / UNSUPPORTED_*: configuration errors, surfaced immediately
//   - NO_* / RUNTIME_UNAVAILABLE: a required resource could not be found
//   - NETWORK_ERROR / NOT_FOUND: remote-service failures, never retried
//   - INTERNAL_ERROR: unexpected internal errors
//
// Local-state corruption (an empty or directory-shaped package.json) is
// repaired silently and has no code.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoPackageManager, "no usable package managers found")
//	if errors.Is(err, errors.ErrCodeNoPackageManager) {
//	    // Handle missing package manager
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidInput              Code = "INVALID_INPUT"
	ErrCodeInvalidConfig             Code = "INVALID_CONFIG"
	ErrCodeInvalidPackage            Code = "INVALID_PACKAGE"
	ErrCodeInvalidVersion            Code = "INVALID_VERSION"
	ErrCodeUnsupportedPackageManager Code = "UNSUPPORTED_PACKAGE_MANAGER"

	// Unavailable resources
	ErrCodeNoPackageManager   Code = "NO_PACKAGE_MANAGER"
	ErrCodeRuntimeUnavailable Code = "RUNTIME_UNAVAILABLE"

	// Remote-service errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// For *Error types, returns the message without the code prefix, followed by
// the cause when one is attached. For other errors, returns the error string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}
