package helper

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable marks failures to reach or query the record store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidLimit is returned for a negative result limit.
	ErrInvalidLimit = errors.New("limit must not be negative")
)

// Error wraps an error with the operation that produced it
type Error struct {
	Original error
	Trace    string
}

// NewError creates a new Error for the given operation
func NewError(trace string, original error) *Error {
	return &Error{
		Original: original,
		Trace:    trace,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Trace, e.Original)
}

func (e *Error) Unwrap() error {
	return e.Original
}

// StoreUnavailable wraps err so that errors.Is(err, ErrStoreUnavailable) holds.
func StoreUnavailable(trace string, err error) *Error {
	return NewError(trace, fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
}
