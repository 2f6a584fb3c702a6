package customer

// ToCustomer builds a new entity from the request and the id assigned by the store.
func (r *CustomerRequest) ToCustomer(id int64) *Customer {
	return &Customer{
		ID:          id,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
	}
}

// ApplyEdit overwrites the mutable fields of c in place and returns it.
// The id is left untouched. A nil customer yields nil.
func (r *CustomerRequest) ApplyEdit(c *Customer) *Customer {
	if c == nil {
		return nil
	}

	c.FirstName = r.FirstName
	c.LastName = r.LastName
	c.DateOfBirth = r.DateOfBirth

	return c
}
