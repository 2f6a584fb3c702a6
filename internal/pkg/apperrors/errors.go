package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrValidation      = errors.New("validation failed")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrDatabase        = errors.New("database error")
	ErrInternalServer  = errors.New("internal server error")
)

// ValidationError names the request field that was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

// DatabaseError records which store operation failed.
// It matches ErrDatabase as well as the driver error it wraps.
type DatabaseError struct {
	Op    string
	Cause error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDatabase, e.Op, e.Cause)
}

func (e *DatabaseError) Unwrap() []error {
	return []error{ErrDatabase, e.Cause}
}

func WrapDatabaseError(op string, cause error) error {
	return &DatabaseError{Op: op, Cause: cause}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
