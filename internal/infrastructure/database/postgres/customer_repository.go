package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"customer-api/internal/domain/customer"
	"customer-api/internal/infrastructure/monitoring"
	"customer-api/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// DBTX is satisfied by the pool and by an open transaction.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type DBPool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBTX = (pgx.Tx)(nil)

type CustomerRepository struct {
	db DBTX
	// pool is nil for a repository bound to a transaction.
	pool   DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(pool DBPool, logger *slog.Logger) *CustomerRepository {
	if pool == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     pool,
		pool:   pool,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	r.logger.DebugContext(ctx, "Beginning transaction")
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError("begin transaction", err)
	}
	return tx, nil
}

func (r *CustomerRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	r.logger.DebugContext(ctx, "Committing transaction")
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return apperrors.WrapDatabaseError("commit transaction", err)
	}
	return nil
}

func (r *CustomerRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	r.logger.DebugContext(ctx, "Rolling back transaction")
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", err))
		return apperrors.WrapDatabaseError("rollback transaction", err)
	}
	return nil
}

// WithinTx holds one pooled connection for the duration of fn and always
// hands it back, including when fn panics.
func (r *CustomerRepository) WithinTx(ctx context.Context, fn func(repo customer.CustomerRepository) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}

	finished := false
	defer func() {
		if !finished {
			_ = r.RollbackTx(ctx, tx)
		}
	}()

	txRepo := &CustomerRepository{db: tx, logger: r.logger}
	if err := fn(txRepo); err != nil {
		return err
	}

	finished = true
	return r.CommitTx(ctx, tx)
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to find all customers")

	query := `
        SELECT id, first_name, last_name, date_of_birth
        FROM customers
        ORDER BY id ASC`

	start := time.Now()
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		observe("find_all", start, err)
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError("query customers", err)
	}
	defer rows.Close()

	customers, err := r.scanCustomers(ctx, rows)
	observe("find_all", start, err)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	log := r.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Attempting to find customer by ID")

	query := `
        SELECT id, first_name, last_name, date_of_birth
        FROM customers
        WHERE id = $1`

	start := time.Now()
	var cust customer.Customer
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&cust.ID,
		&cust.FirstName,
		&cust.LastName,
		&cust.DateOfBirth,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observe("find_by_id", start, nil)
			log.WarnContext(ctx, "Customer not found")
			return nil, apperrors.ErrNotFound
		}
		observe("find_by_id", start, err)
		log.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError("get customer by ID", err)
	}
	observe("find_by_id", start, nil)

	log.InfoContext(ctx, "Customer found successfully")
	return &cust, nil
}

func (r *CustomerRepository) Search(ctx context.Context, term string) ([]*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to search customers by name", slog.String("term", term))

	query := `
        SELECT id, first_name, last_name, date_of_birth
        FROM customers
        WHERE first_name ILIKE $1 OR last_name ILIKE $1
        ORDER BY id ASC`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, containsPattern(term))
	if err != nil {
		observe("search", start, err)
		r.logger.ErrorContext(ctx, "Failed to search customers", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError("search customers", err)
	}
	defer rows.Close()

	customers, err := r.scanCustomers(ctx, rows)
	observe("search", start, err)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Finished searching customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) MaxID(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(MAX(id), 0) FROM customers`

	start := time.Now()
	var maxID int64
	err := r.db.QueryRow(ctx, query).Scan(&maxID)
	observe("max_id", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query max customer id", slog.Any("error", err))
		return 0, apperrors.WrapDatabaseError("query max customer id", err)
	}
	return maxID, nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM customers`

	start := time.Now()
	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	observe("count", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return 0, apperrors.WrapDatabaseError("count customers", err)
	}
	return count, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	log := r.logger.With(slog.Int64("customerID", cust.ID))
	log.InfoContext(ctx, "Attempting to insert new customer")

	query := `
        INSERT INTO customers (id, first_name, last_name, date_of_birth)
        VALUES ($1, $2, $3, $4)`

	start := time.Now()
	_, err := r.db.Exec(ctx, query,
		cust.ID,
		cust.FirstName,
		cust.LastName,
		cust.DateOfBirth,
	)
	observe("insert", start, err)

	if err != nil {
		translatedErr := translateDBError(err)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			log.WarnContext(ctx, "Failed to insert customer due to unique constraint violation", slog.Any("error", err))
			return translatedErr
		}
		log.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError("insert customer", err)
	}

	log.InfoContext(ctx, "Customer inserted successfully")
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	log := r.logger.With(slog.Int64("customerID", cust.ID))
	log.InfoContext(ctx, "Attempting to update customer")

	query := `
        UPDATE customers
        SET first_name = $1,
            last_name = $2,
            date_of_birth = $3
        WHERE id = $4`

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, query,
		cust.FirstName,
		cust.LastName,
		cust.DateOfBirth,
		cust.ID,
	)
	observe("update", start, err)

	if err != nil {
		log.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError("update customer", err)
	}

	if cmdTag.RowsAffected() == 0 {
		log.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	log.InfoContext(ctx, "Customer updated successfully")
	return nil
}

func (r *CustomerRepository) Remove(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	log := r.logger.With(slog.Int64("customerID", cust.ID))
	log.InfoContext(ctx, "Attempting to delete customer")

	query := `DELETE FROM customers WHERE id = $1`

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, query, cust.ID)
	observe("delete", start, err)
	if err != nil {
		log.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError("delete customer", err)
	}

	if cmdTag.RowsAffected() == 0 {
		log.WarnContext(ctx, "Delete affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	log.InfoContext(ctx, "Customer deleted successfully")
	return nil
}

func (r *CustomerRepository) scanCustomers(ctx context.Context, rows pgx.Rows) ([]*customer.Customer, error) {
	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		err := rows.Scan(
			&cust.ID,
			&cust.FirstName,
			&cust.LastName,
			&cust.DateOfBirth,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, apperrors.WrapDatabaseError("scan customer row", err)
		}
		customers = append(customers, &cust)
	}

	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError("iterate customer rows", err)
	}
	return customers, nil
}

// containsPattern turns term into an ILIKE pattern that matches it literally.
func containsPattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

func translateDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
	}
	return err
}

func observe(queryName string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery(queryName, status, time.Since(start))
}
