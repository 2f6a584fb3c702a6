package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("firstName", "This field is required")

	assert.ErrorIs(t, err, ErrValidation)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "firstName", validationErr.Field)
	assert.Equal(t, "This field is required", validationErr.Message)
	assert.Equal(t, "validation failed for field 'firstName': This field is required", validationErr.Error())
}

func TestValidationErrorWithoutField(t *testing.T) {
	err := &ValidationError{Message: "body is empty"}
	assert.Equal(t, "validation failed: body is empty", err.Error())
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapDatabaseError("list customers", cause)

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "database error: list customers: connection reset", err.Error())

	var dbErr *DatabaseError
	require.True(t, errors.As(fmt.Errorf("service: %w", err), &dbErr))
	assert.Equal(t, "list customers", dbErr.Op)
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", ErrNotFound, true},
		{"wrapped", fmt.Errorf("%w: customer 7", ErrNotFound), true},
		{"joined", errors.Join(errors.New("outer"), ErrNotFound), true},
		{"database", WrapDatabaseError("find customer", errors.New("timeout")), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}
