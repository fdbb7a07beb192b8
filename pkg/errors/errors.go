// Package errors provides structured error types for the releaser.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the release engine
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidVersion, "version %q needs major.minor.patch", v)
//	if errors.Is(err, errors.ErrCodeInvalidVersion) {
//	    // Handle malformed version
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeGitCommand, origErr, "git %s failed", args[0])
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// ErrCodeInvalidVersion marks a version string without three numeric
	// dot-separated components.
	ErrCodeInvalidVersion Code = "INVALID_VERSION"

	// ErrCodeInvalidManifest marks a missing or unparsable release manifest.
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// ErrCodeMissingMetadata marks a package metadata file that is absent
	// or not parseable.
	ErrCodeMissingMetadata Code = "MISSING_METADATA"

	// ErrCodeGitCommand marks a git invocation that exited non-zero.
	ErrCodeGitCommand Code = "GIT_COMMAND"

	// ErrCodeFileIO marks a failed read or write of a changelog, metadata,
	// or extra marker file.
	ErrCodeFileIO Code = "FILE_IO"

	// ErrCodeInternal marks unexpected internal errors.
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
