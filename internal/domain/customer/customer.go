package customer

import "time"

type Customer struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth time.Time `json:"dateOfBirth"`
}

// CustomerRequest is the create/edit input. It is never persisted directly.
type CustomerRequest struct {
	FirstName   string    `json:"firstName" validate:"required,notblank"`
	LastName    string    `json:"lastName" validate:"required,notblank"`
	DateOfBirth time.Time `json:"dateOfBirth" validate:"required"`
}
