// Package errors provides structured error types for stackdiagram.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP service
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Construction errors report a violated invariant of the diagram model:
//   - SCOPE_ERROR: scope stack discipline violated
//   - REFERENCE_ERROR: edge endpoint is not a node of the active diagram
//   - INVALID_ATTRIBUTE: a style record failed validation
//
// Render errors classify failures of the layout and rasterization backend:
//   - BACKEND_MISSING: the engine could not be started or found
//   - MALFORMED_GRAPH_INPUT: the engine rejected the graph description
//   - WRITE_FAILURE: the output artifact could not be written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeScope, "close %q: not the active scope", label)
//	if errors.Is(err, errors.ErrCodeScope) {
//	    // Handle stack violation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeWriteFailure, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Construction errors
	ErrCodeScope            Code = "SCOPE_ERROR"
	ErrCodeReference        Code = "REFERENCE_ERROR"
	ErrCodeInvalidAttribute Code = "INVALID_ATTRIBUTE"

	// Render backend errors
	ErrCodeBackendMissing Code = "BACKEND_MISSING"
	ErrCodeMalformedGraph Code = "MALFORMED_GRAPH_INPUT"
	ErrCodeWriteFailure   Code = "WRITE_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsRenderBackendError reports whether err carries one of the render backend
// codes (BACKEND_MISSING, MALFORMED_GRAPH_INPUT, WRITE_FAILURE).
func IsRenderBackendError(err error) bool {
	switch GetCode(err) {
	case ErrCodeBackendMissing, ErrCodeMalformedGraph, ErrCodeWriteFailure:
		return true
	}
	return false
}

// IsConstructionError reports whether err was raised while building a diagram
// (SCOPE_ERROR, REFERENCE_ERROR, INVALID_ATTRIBUTE).
func IsConstructionError(err error) bool {
	switch GetCode(err) {
	case ErrCodeScope, ErrCodeReference, ErrCodeInvalidAttribute:
		return true
	}
	return false
}
