package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")
	// ErrInvalid indicates the request failed validation before any store access.
	ErrInvalid = errors.New("invalid")
)

// Invalidf wraps ErrInvalid with a human-readable message.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
