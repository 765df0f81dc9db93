// Package errs provides the structured error type shared by every layer of
// dependency resolution: registry lookups, version resolution and tree
// building all return *errs.Error so callers can branch on a
// machine-readable code instead of string-matching or type-asserting on a
// specific package's error type.
package errs

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

// Error codes returned by this module. PackageNotFound and InvalidArguments
// are the two kinds a caller of pkg/analyzer needs to branch on; Internal
// covers everything else (reading a config file, unexpected local failures).
const (
	CodePackageNotFound  Code = "PACKAGE_NOT_FOUND"
	CodeInvalidArguments Code = "INVALID_ARGUMENTS"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with the given code, wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err carries the given code, unwrapping the error
// chain to find an *Error.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns e.Message for an *Error, or err.Error() otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
