// Package apperr defines the error taxonomy surfaced at the API boundary.
package apperr

import "fmt"

// Kind classifies a failure for status-code mapping and response bodies.
type Kind string

const (
	KindAuthenticationRequired Kind = "AUTHENTICATION_REQUIRED"
	KindForbidden              Kind = "FORBIDDEN"
	KindNotFound               Kind = "NOT_FOUND"
	KindValidation             Kind = "VALIDATION"
	KindConflict               Kind = "CONFLICT"
)

// Error carries a kind alongside a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// AuthenticationRequired reports a missing or invalid credential.
func AuthenticationRequired(format string, args ...any) *Error {
	return &Error{Kind: KindAuthenticationRequired, Message: fmt.Sprintf(format, args...)}
}

// Forbidden reports an authenticated caller lacking permission.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent requested or referenced record.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation reports a malformed or missing field.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}
