// Package apperr defines the error taxonomy shared by services and handlers:
// validation, auth, not-found, and upstream failures, each mapping to one
// HTTP status. A missed recommendation extraction is deliberately not an
// error and never appears here.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// Validation covers malformed input: bad date strings, missing required
	// fields, duplicate-date writes.
	Validation Kind = iota + 1
	// Auth covers missing, invalid, or expired identity.
	Auth
	// NotFound covers absent calendars, entries, statistics, and catalog
	// matches.
	NotFound
	// Upstream covers model-call and store-call failures.
	Upstream
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a classification and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the classification of err, or 0 when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound reports whether err is classified NotFound.
func IsNotFound(err error) bool { return KindOf(err) == NotFound }

// IsValidation reports whether err is classified Validation.
func IsValidation(err error) bool { return KindOf(err) == Validation }

// Status maps an error to an HTTP status code. Unclassified errors are
// treated as unexpected failures.
func Status(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case Auth:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing message for err. For unclassified errors
// a generic message is returned so internals are not exposed.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "an unexpected error occurred"
}
