package dto

import (
	"customer-api/internal/domain/customer"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dob = time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC)

func TestCustomerRequestToDomain(t *testing.T) {
	req := CustomerRequest{FirstName: "foo", LastName: "bar", DateOfBirth: dob}

	assert.Equal(t, customer.CustomerRequest{FirstName: "foo", LastName: "bar", DateOfBirth: dob}, req.ToDomain())
}

func TestNewCustomerResponse(t *testing.T) {
	t.Run("nil customer", func(t *testing.T) {
		assert.Equal(t, CustomerResponse{}, NewCustomerResponse(nil))
	})

	t.Run("copies every field", func(t *testing.T) {
		cust := &customer.Customer{ID: 3, FirstName: "foo", LastName: "bar", DateOfBirth: dob}

		resp := NewCustomerResponse(cust)

		assert.Equal(t, int64(3), resp.ID)
		assert.Equal(t, "foo", resp.FirstName)
		assert.Equal(t, "bar", resp.LastName)
		assert.Equal(t, dob, resp.DateOfBirth)
	})
}

func TestNewCustomerListResponse(t *testing.T) {
	customers := []*customer.Customer{
		{ID: 1, FirstName: "foo_1", LastName: "bar_1", DateOfBirth: dob},
		{ID: 2, FirstName: "foo_2", LastName: "bar_2", DateOfBirth: dob},
	}

	resp := NewCustomerListResponse(customers)

	require.Len(t, resp, 2)
	assert.Equal(t, int64(1), resp[0].ID)
	assert.Equal(t, "bar_2", resp[1].LastName)
	assert.Empty(t, NewCustomerListResponse(nil))
}

func TestCustomerResponseJSONShape(t *testing.T) {
	body, err := json.Marshal(CustomerResponse{ID: 1, FirstName: "foo", LastName: "bar", DateOfBirth: dob})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":1,"firstName":"foo","lastName":"bar","dateOfBirth":"1990-03-14T00:00:00Z"}`, string(body))
}

func TestErrorResponseOmitsEmptyField(t *testing.T) {
	body, err := json.Marshal(ErrorResponse{Error: ErrorDetail{Message: "Resource not found."}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"error":{"message":"Resource not found."}}`, string(body))
}
