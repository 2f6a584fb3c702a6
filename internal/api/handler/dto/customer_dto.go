package dto

import (
	"customer-api/internal/domain/customer"
	"time"
)

// CustomerRequest is the body accepted by create and edit.
type CustomerRequest struct {
	FirstName   string    `json:"firstName" example:"Ada"`
	LastName    string    `json:"lastName" example:"Lovelace"`
	DateOfBirth time.Time `json:"dateOfBirth" example:"1990-03-14T00:00:00Z"`
}

func (r CustomerRequest) ToDomain() customer.CustomerRequest {
	return customer.CustomerRequest{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
	}
}

type CustomerResponse struct {
	ID          int64     `json:"id" example:"1"`
	FirstName   string    `json:"firstName" example:"Ada"`
	LastName    string    `json:"lastName" example:"Lovelace"`
	DateOfBirth time.Time `json:"dateOfBirth" example:"1990-03-14T00:00:00Z"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		ID:          cust.ID,
		FirstName:   cust.FirstName,
		LastName:    cust.LastName,
		DateOfBirth: cust.DateOfBirth,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, len(customers))
	for i, cust := range customers {
		resp[i] = NewCustomerResponse(cust)
	}
	return resp
}

type ErrorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
