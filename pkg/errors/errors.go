// Package errors provides structured error types for ventgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the pipeline and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (rejected before the search runs)
//   - NOT_FOUND_*: Resource not found
//   - CAPACITY_*: Limits of the bitmask search exceeded
//   - NETWORK_*: Network-related errors (remote cache backends)
//   - INTERNAL_*: Unexpected internal errors
//
// # Configuration Errors
//
// A missing start node and a positive-rate node count beyond the mask width
// are configuration errors: the search cannot produce a meaningful result and
// the run is aborted. Use [IsConfiguration] to detect them.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeStartNotFound, "start node %q not in network", id)
//	if errors.IsNotFound(err) {
//	    // Handle missing node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "redis get %s", key)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidNode     Code = "INVALID_NODE"
	ErrCodeInvalidRate     Code = "INVALID_RATE"
	ErrCodeInvalidBudget   Code = "INVALID_BUDGET"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeDuplicateNode   Code = "INVALID_DUPLICATE_NODE"
	ErrCodeUnknownNeighbor Code = "INVALID_UNKNOWN_NEIGHBOR"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeStartNotFound Code = "NOT_FOUND_START"
	ErrCodeFileNotFound  Code = "NOT_FOUND_FILE"

	// Capacity errors
	ErrCodeCapacityExceeded Code = "CAPACITY_EXCEEDED"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsNotFound reports whether err carries any NOT_FOUND* code.
func IsNotFound(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), string(ErrCodeNotFound))
}

// IsInvalid reports whether err carries any INVALID_* code.
func IsInvalid(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), "INVALID_")
}

// IsConfiguration reports whether err is a fatal configuration error:
// the start node is absent or the bit index capacity is exceeded.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeStartNotFound, ErrCodeCapacityExceeded:
		return true
	}
	return false
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
