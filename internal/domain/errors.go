package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField signals a filter parameter that no schema field declares.
	ErrUnknownField = errors.New("unknown field")
	// ErrTypeMismatch signals a filter value that cannot be coerced to the field kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrOutOfRange signals a range filter whose lower bound exceeds its upper bound.
	ErrOutOfRange = errors.New("out of range")

	// ErrMissingToken signals a request without an authentication token.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken signals a token that does not match the expected code.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnavailable signals a connection or timeout failure on the engine round-trip.
	// Safe for the caller to retry.
	ErrUnavailable = errors.New("search engine unavailable")
	// ErrBadQuery signals that the engine rejected the query. Not retryable:
	// a malformed query indicates a builder defect.
	ErrBadQuery = errors.New("bad query")
	// ErrCorruptIndex signals an undecodable hit while strict mode is on.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrNotImplemented signals an operation outside the gateway's scope.
	ErrNotImplemented = errors.New("not implemented")
)

// FieldError wraps a validation sentinel with the offending field name.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Err.Error())
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewFieldError attaches a field name to a validation sentinel.
func NewFieldError(field string, sentinel error) error {
	return &FieldError{Field: field, Err: sentinel}
}

// FieldName extracts the offending field from a validation error, if any.
func FieldName(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
