// Package apperror defines the tagged error type shared by every layer.
//
// ERROR KINDS:
// Errors come from two places, and the HTTP boundary treats them differently:
//
//  1. EXPLICIT domain errors, raised on purpose by application code:
//     NotFound, BadRequest, Unauthenticated. They carry their final,
//     client-facing message and are marked Explicit.
//  2. STORE-ORIGINATED errors, produced when a repository translates a
//     driver failure: DuplicateKey (unique index hit), Cast (malformed id).
//     Schema validation (ValidationFailed) belongs to this family too: it is
//     the model's equivalent of a database schema check.
//
// Every constructor returns *AppError, which wraps a sentinel via Unwrap()
// so callers can use errors.Is(err, apperror.ErrNotFound) no matter how many
// times the error was wrapped with fmt.Errorf("...: %w", err).
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrValidation      = errors.New("Validation Error")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrCast            = errors.New("cast error")
)

// Kind identifies the shape of an AppError.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindUnauthenticated
	KindValidation
	KindDuplicateKey
	KindCast
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindValidation:
		return "validation"
	case KindDuplicateKey:
		return "duplicate_key"
	case KindCast:
		return "cast"
	default:
		return "internal"
	}
}

// Violation is one field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the single error variant used across the application.
//
// Which fields are set depends on Kind:
//   - Validation:   Violations (one per failing field)
//   - DuplicateKey: Fields (the conflicting keys, e.g. ["email"])
//   - Cast:         Field + Value (e.g. "id", "not-an-id")
//   - domain kinds: Message only, with Explicit = true
type AppError struct {
	Kind       Kind
	Err        error  // sentinel, exposed through Unwrap
	Message    string // human-readable message
	Field      string
	Fields     []string
	Value      string
	Violations []Violation
	Explicit   bool // raised deliberately by application logic
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource. The message is sent to the client as is.
func NotFound(message string) *AppError {
	return &AppError{
		Kind:     KindNotFound,
		Err:      ErrNotFound,
		Message:  message,
		Explicit: true,
	}
}

// BadRequest reports a request the application refuses to process.
func BadRequest(message string) *AppError {
	return &AppError{
		Kind:     KindBadRequest,
		Err:      ErrBadRequest,
		Message:  message,
		Explicit: true,
	}
}

// Unauthenticated reports a missing, malformed or rejected credential.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Kind:     KindUnauthenticated,
		Err:      ErrUnauthenticated,
		Message:  message,
		Explicit: true,
	}
}

// ValidationFailed bundles every field violation found on a record.
// The message joins the individual messages with commas.
func ValidationFailed(violations ...Violation) *AppError {
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, v.Message)
	}
	return &AppError{
		Kind:       KindValidation,
		Err:        ErrValidation,
		Message:    strings.Join(msgs, ","),
		Violations: violations,
	}
}

// DuplicateKey reports a uniqueness violation on the given fields.
func DuplicateKey(fields ...string) *AppError {
	return &AppError{
		Kind:    KindDuplicateKey,
		Err:     ErrDuplicateKey,
		Message: fmt.Sprintf("duplicate value for %s", strings.Join(fields, ", ")),
		Fields:  fields,
	}
}

// Cast reports a value that could not be converted to the store's id type.
func Cast(field, value string) *AppError {
	return &AppError{
		Kind:    KindCast,
		Err:     ErrCast,
		Message: fmt.Sprintf("cannot cast %q to an id for %s", value, field),
		Field:   field,
		Value:   value,
	}
}

// As extracts the *AppError from an error chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
