package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound      = errors.New("resource not found")
	ErrBatchNotFound = fmt.Errorf("%w: batch", ErrNotFound)
	ErrUserNotFound  = fmt.Errorf("%w: user", ErrNotFound)

	// Pipeline errors
	ErrInvalidResponse    = errors.New("invalid response")
	ErrInvalidConfig      = errors.New("invalid matching configuration")
	ErrMatcherFailed      = errors.New("matcher produced an inconsistent assignment")
	ErrTimeBudgetExceeded = errors.New("matcher time budget exceeded")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewInvalidResponseError(userID UserID, questionID QuestionID, reason string) error {
	return fmt.Errorf("%w: user %s question %s: %s", ErrInvalidResponse, userID, questionID, reason)
}

func NewInvalidConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidResponse(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

func IsFatalRunError(err error) bool {
	return errors.Is(err, ErrMatcherFailed) ||
		errors.Is(err, ErrTimeBudgetExceeded) ||
		errors.Is(err, ErrInvalidConfig)
}
