package apperrors

import (
	"errors"
	"fmt"
)

// AppError wraps a lower-level failure with an HTTP-ish code and a message
// suitable for logging. Repositories use it so services can keep matching on
// the sentinel errors via errors.Is.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(format string, args ...any) *AppError {
	return &AppError{Code: 404, Message: fmt.Sprintf(format, args...), Err: ErrNotFound}
}

// IsRetryable reports whether an error represents transient store contention
// that a caller may retry with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreTransient)
}
