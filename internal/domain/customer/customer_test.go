package customer_test

import (
	"customer-api/internal/domain/customer"
	"customer-api/internal/pkg/apperrors"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dateOfBirth = time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC)

func TestCustomerRequest_ToCustomer(t *testing.T) {
	req := customer.CustomerRequest{FirstName: "foo", LastName: "bar", DateOfBirth: dateOfBirth}

	cust := req.ToCustomer(42)

	require.NotNil(t, cust)
	assert.Equal(t, int64(42), cust.ID, "ID should be the supplied id")
	assert.Equal(t, "foo", cust.FirstName)
	assert.Equal(t, "bar", cust.LastName)
	assert.Equal(t, dateOfBirth, cust.DateOfBirth)
}

func TestCustomerRequest_ApplyEdit(t *testing.T) {
	t.Run("Overwrites mutable fields and keeps the id", func(t *testing.T) {
		existing := &customer.Customer{ID: 1, FirstName: "foo_1", LastName: "bar_1", DateOfBirth: dateOfBirth}
		newDOB := dateOfBirth.AddDate(1, 0, 0)
		req := customer.CustomerRequest{FirstName: "Bar", LastName: "Bash", DateOfBirth: newDOB}

		edited := req.ApplyEdit(existing)

		require.NotNil(t, edited)
		assert.Same(t, existing, edited, "ApplyEdit should mutate in place")
		assert.Equal(t, int64(1), edited.ID)
		assert.Equal(t, "Bar", edited.FirstName)
		assert.Equal(t, "Bash", edited.LastName)
		assert.Equal(t, newDOB, edited.DateOfBirth)
	})

	t.Run("Nil customer yields nil", func(t *testing.T) {
		req := customer.CustomerRequest{FirstName: "Bar", LastName: "Bash", DateOfBirth: dateOfBirth}
		assert.Nil(t, req.ApplyEdit(nil))
	})

	t.Run("Re-applying identical values is idempotent", func(t *testing.T) {
		req := customer.CustomerRequest{FirstName: "foo", LastName: "bar", DateOfBirth: dateOfBirth}
		cust := req.ToCustomer(5)
		snapshot := *cust

		req.ApplyEdit(cust)
		req.ApplyEdit(cust)

		assert.Equal(t, snapshot, *cust)
	})
}

func TestCustomerRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   customer.CustomerRequest
		wantField string
	}{
		{"Valid request", customer.CustomerRequest{FirstName: "foo", LastName: "bar", DateOfBirth: dateOfBirth}, ""},
		{"Missing first name", customer.CustomerRequest{LastName: "bar", DateOfBirth: dateOfBirth}, "firstName"},
		{"Blank first name", customer.CustomerRequest{FirstName: "   ", LastName: "bar", DateOfBirth: dateOfBirth}, "firstName"},
		{"Missing last name", customer.CustomerRequest{FirstName: "foo", DateOfBirth: dateOfBirth}, "lastName"},
		{"Missing date of birth", customer.CustomerRequest{FirstName: "foo", LastName: "bar"}, "dateOfBirth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)

			var validationErr *apperrors.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.wantField, validationErr.Field)
			assert.NotEmpty(t, validationErr.Message)
		})
	}
}
