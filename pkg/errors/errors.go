// Package errors provides structured error types for sankeyflow.
//
// Every failure that reaches a user carries a machine-readable [Code], a
// human-readable message and, where one exists, a suggestion for fixing the
// input. The three codes that matter most mirror the stages of the layout
// core:
//   - PARSE_ERROR: the input text is malformed or incomplete
//   - VALIDATION_ERROR: the text parsed but the graph is structurally invalid
//   - LAYOUT_ERROR: the engine computed non-finite or non-positive geometry
//
// Parse and validation errors are expected and recoverable by the user.
// Layout errors indicate an internal invariant violation and abort the
// request without producing any geometry.
//
// # Usage
//
//	err := errors.Validation("source node %q does not exist", id)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    fmt.Println(errors.Suggestion(err))
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, origErr, "invalid JSON")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout core errors
	ErrCodeParse      Code = "PARSE_ERROR"
	ErrCodeValidation Code = "VALIDATION_ERROR"
	ErrCodeLayout     Code = "LAYOUT_ERROR"

	// Input errors outside the core (flags, API requests)
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Default suggestions attached by the kind constructors.
const (
	SuggestParse      = "check the data format and make sure it is valid JSON, CSV or TSV"
	SuggestValidation = "check that node ids and links are correct"
	SuggestLayout     = "try simplifying the data or adjusting the layout parameters"
)

// Error is a structured error with a code, optional suggestion and optional cause.
type Error struct {
	Code       Code   // Machine-readable error code
	Message    string // Human-readable message
	Suggestion string // How the user might fix the problem (optional)
	Cause      error  // Underlying error (optional)
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

// WithSuggestion sets the suggestion and returns e for chaining.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
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

// Parse creates a PARSE_ERROR with the default parse suggestion.
func Parse(format string, args ...any) *Error {
	return New(ErrCodeParse, format, args...).WithSuggestion(SuggestParse)
}

// Validation creates a VALIDATION_ERROR with the default validation suggestion.
func Validation(format string, args ...any) *Error {
	return New(ErrCodeValidation, format, args...).WithSuggestion(SuggestValidation)
}

// Layout creates a LAYOUT_ERROR with the default layout suggestion.
func Layout(format string, args ...any) *Error {
	return New(ErrCodeLayout, format, args...).WithSuggestion(SuggestLayout)
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

// Kind returns the short kind name for the core error codes: "parse",
// "validation" or "layout". Any other error yields "internal".
func Kind(err error) string {
	switch GetCode(err) {
	case ErrCodeParse:
		return "parse"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeLayout:
		return "layout"
	case ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return "input"
	case ErrCodeNotFound:
		return "not_found"
	}
	return "internal"
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

// Suggestion returns the first non-empty suggestion found in the error chain.
func Suggestion(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Suggestion != "" {
			return e.Suggestion
		}
		err = e.Cause
	}
	return ""
}
