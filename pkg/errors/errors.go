// Package errors provides structured error types for chartcore.
//
// Every failure raised by the engine carries a machine-readable [Code] so
// callers (the CLI, the HTTP API, or an embedding UI) can decide whether to
// fall back to a non-animated, last-known-good render.
//
// # Error Codes
//
// The chart taxonomy:
//   - DEGENERATE_DOMAIN: a continuous scale was built over a zero-width domain
//   - UNKNOWN_CATEGORY: an ordinal scale was asked for a category it does not hold
//   - INVALID_EXTENT: a scroll item or viewport extent is not positive
//   - MISSING_FIELD: a record lacks a field the field spec marks as required
//
// Plumbing codes (INVALID_*, NOT_FOUND, INTERNAL_ERROR) cover configuration,
// storage and transport failures.
//
// # Usage
//
//	err := errors.MissingField("a", "value")
//	if errors.Is(err, errors.ErrCodeMissingField) {
//	    // render the last good scene instead
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode dataset %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Chart engine errors
	ErrCodeDegenerateDomain Code = "DEGENERATE_DOMAIN"
	ErrCodeUnknownCategory  Code = "UNKNOWN_CATEGORY"
	ErrCodeInvalidExtent    Code = "INVALID_EXTENT"
	ErrCodeMissingField     Code = "MISSING_FIELD"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidChart  Code = "INVALID_CHART"
	ErrCodeInvalidScale  Code = "INVALID_SCALE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
// Key and Field identify the offending record and field when known.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Key     string // Record identity key (optional)
	Field   string // Field name (optional)
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

// WithKey returns a copy of e annotated with a record key.
func (e *Error) WithKey(key string) *Error {
	c := *e
	c.Key = key
	return &c
}

// AttachKey annotates err with a record key when err is an *Error that does
// not carry one yet. Other errors are returned unchanged.
func AttachKey(err error, key string) error {
	var e *Error
	if errors.As(err, &e) && e.Key == "" {
		return e.WithKey(key)
	}
	return err
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

// =============================================================================
// Chart Taxonomy Constructors
// =============================================================================

// DegenerateDomain reports a continuous domain whose bounds coincide.
func DegenerateDomain(min, max float64) *Error {
	return New(ErrCodeDegenerateDomain, "domain [%g, %g] has zero width", min, max)
}

// UnknownCategory reports a value outside an ordinal scale's declared domain.
func UnknownCategory(category string) *Error {
	e := New(ErrCodeUnknownCategory, "category %q is not in the ordinal domain", category)
	e.Field = category
	return e
}

// InvalidExtent reports a non-positive extent for the named dimension.
func InvalidExtent(name string, value float64) *Error {
	e := New(ErrCodeInvalidExtent, "%s must be positive, got %g", name, value)
	e.Field = name
	return e
}

// MissingField reports a record lacking a required field.
func MissingField(key, field string) *Error {
	return &Error{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("record %q is missing required field %q", key, field),
		Key:     key,
		Field:   field,
	}
}
