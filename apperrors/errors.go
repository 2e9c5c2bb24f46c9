// Package apperrors defines the error kinds the HTTP layer knows how to map
// to status codes: rejected input and missing records. Anything else is an
// internal error.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a reference to a record that does not exist. Wrap it
// with context via NotFound and detect it with errors.Is.
var ErrNotFound = errors.New("record not found")

// NotFound returns a wrapped ErrNotFound naming the missing record.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// ValidationError rejects malformed input before any state mutation happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
