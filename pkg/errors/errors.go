// Package errors provides structured error types for the toolcatalog application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the builder, the diff engine and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (bad hash type, conflicting requirements)
//   - *_NOT_FOUND: Resource not found
//   - NETWORK_*: Network-related errors raised by version providers
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidHash, "unsupported hash type %q", typ)
//	if errors.Is(err, errors.ErrCodeInvalidHash) {
//	    // Handle validation error
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
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidHash        Code = "INVALID_HASH"
	ErrCodeInvalidRequirement Code = "INVALID_REQUIREMENT"
	ErrCodeInvalidName        Code = "INVALID_NAME"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeInvalidCatalog     Code = "INVALID_CATALOG"

	// Consistency errors raised while assembling a repository
	ErrCodeNameMismatch     Code = "NAME_MISMATCH"
	ErrCodeDuplicateVersion Code = "DUPLICATE_VERSION"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeVersionNotFound Code = "VERSION_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Source configuration errors
	ErrCodeUnknownSource Code = "UNKNOWN_SOURCE"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Codes lists every code in declaration order.
var Codes = []Code{
	ErrCodeInvalidInput, ErrCodeInvalidHash, ErrCodeInvalidRequirement, ErrCodeInvalidName,
	ErrCodeInvalidConfig, ErrCodeInvalidCatalog, ErrCodeNameMismatch, ErrCodeDuplicateVersion,
	ErrCodeNotFound, ErrCodeVersionNotFound, ErrCodeFileNotFound, ErrCodeUnknownSource,
	ErrCodeNetwork, ErrCodeInternal,
}

// Error carries a code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message: cause". A cause that is itself an *Error
// with the same code contributes only its message chain, so context added
// by callers reads as one sentence:
//
//	INVALID_HASH: source #2 (phar-io:https://...): phpunit 10.0.0: unsupported hash type "md5"
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.chain()
}

func (e *Error) chain() string {
	if e.Cause == nil {
		return e.Message
	}
	var inner *Error
	if errors.As(e.Cause, &inner) && inner.Code == e.Code && inner == e.Cause {
		return e.Message + ": " + inner.chain()
	}
	return e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the cause for errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error that adds context to cause. An empty code inherits
// the code of cause, falling back to INTERNAL_ERROR.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	if code == "" {
		code = GetCode(cause)
	}
	if code == "" {
		code = ErrCodeInternal
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.chain()
	}
	return err.Error()
}
