// Package apperr defines the error taxonomy shared by services and handlers.
// Services return these; the HTTP edge maps them to status codes with Status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Unauthenticated Kind = iota + 1
	Forbidden
	NotFound
	Validation
	InvalidTransition
	Conflict
	DependencyUnavailable
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s (%d field errors)", e.Message, len(e.Fields))
	}
	return e.Message
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewValidation builds a Validation error carrying field-level reasons.
func NewValidation(fields ...FieldError) *Error {
	return &Error{Kind: Validation, Message: "validation failed", Fields: fields}
}

// Is lets errors.Is match on the kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Kind sentinels for errors.Is checks in tests and callers.
var (
	ErrUnauthenticated       = &Error{Kind: Unauthenticated}
	ErrForbidden             = &Error{Kind: Forbidden}
	ErrNotFound              = &Error{Kind: NotFound}
	ErrValidation            = &Error{Kind: Validation}
	ErrInvalidTransition     = &Error{Kind: InvalidTransition}
	ErrConflict              = &Error{Kind: Conflict}
	ErrDependencyUnavailable = &Error{Kind: DependencyUnavailable}
)

// Status maps an error to its HTTP status. Unknown errors are 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case InvalidTransition, Conflict:
		return http.StatusConflict
	case DependencyUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FieldErrors extracts field descriptors when err is a Validation error.
func FieldErrors(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
