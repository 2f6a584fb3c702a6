package customer

import (
	"context"
)

// CustomerRepository is the entity store for customer rows. Absent rows are
// reported as apperrors.ErrNotFound; every other failure is an internal one.
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]*Customer, error)

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	Search(ctx context.Context, term string) ([]*Customer, error)

	// MaxID returns 0 when the store is empty.
	MaxID(ctx context.Context) (int64, error)

	Count(ctx context.Context) (int64, error)

	Insert(ctx context.Context, customer *Customer) error

	Update(ctx context.Context, customer *Customer) error

	Remove(ctx context.Context, customer *Customer) error

	// WithinTx runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(repo CustomerRepository) error) error
}
