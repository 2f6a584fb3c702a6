package customer

import (
	"context"
	"customer-api/internal/event"
	"customer-api/internal/infrastructure/monitoring"
	"customer-api/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	customerNotFound = "Customer not found by repository"

	outcomeSuccess  = "success"
	outcomeNotFound = "not_found"
	outcomeFailure  = "failure"
)

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]*Customer, error)
	CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error)
	EditCustomer(ctx context.Context, customerID int64, req CustomerRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
	SearchCustomers(ctx context.Context, term string) ([]*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.Publisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, publisher event.Publisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	if publisher == nil {
		logger.Warn("Warning: No event publisher provided to NewCustomerService, events will be dropped")
		publisher = event.NewNoopPublisher(logger)
	}

	return &customerService{
		repo:   repo,
		pub:    publisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		ID:          cust.ID,
		FirstName:   cust.FirstName,
		LastName:    cust.LastName,
		DateOfBirth: cust.DateOfBirth,
	}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list all customers")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		monitoring.RecordCustomerOperation("list", outcomeFailure)
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	if len(customers) == 0 {
		s.logger.WarnContext(ctx, "No customers stored")
		monitoring.RecordCustomerOperation("list", outcomeNotFound)
		return nil, apperrors.ErrNotFound
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	monitoring.RecordCustomerOperation("list", outcomeSuccess)
	return customers, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	var created *Customer
	err := s.repo.WithinTx(ctx, func(repo CustomerRepository) error {
		maxID, err := repo.MaxID(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute next customer id: %w", err)
		}

		cust := req.ToCustomer(maxID + 1)
		if err := repo.Insert(ctx, cust); err != nil {
			return fmt.Errorf("failed to save new customer: %w", err)
		}
		created = cust
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Concurrent create computed a duplicate customer id", slog.Any("error", err))
		} else {
			s.logger.ErrorContext(ctx, "Repository failed to create customer", slog.Any("error", err))
		}
		monitoring.RecordCustomerOperation("create", outcomeFailure)
		return nil, err
	}

	log := s.logger.With(slog.Int64("customerID", created.ID))
	log.InfoContext(ctx, "Successfully created new customer, publishing creation event")

	createdEvent := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(created),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
		log.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	monitoring.RecordCustomerOperation("create", outcomeSuccess)
	return created, nil
}

func (s *customerService) EditCustomer(ctx context.Context, customerID int64, req CustomerRequest) (*Customer, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Attempting to edit customer")

	var updated *Customer
	err := s.repo.WithinTx(ctx, func(repo CustomerRepository) error {
		existing, err := repo.FindByID(ctx, customerID)
		if err != nil {
			return err
		}

		cust := req.ApplyEdit(existing)
		if cust == nil {
			return fmt.Errorf("%w: customer %d could not be edited", apperrors.ErrInternalServer, customerID)
		}

		if err := repo.Update(ctx, cust); err != nil {
			return err
		}
		updated = cust
		return nil
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			log.WarnContext(ctx, customerNotFound)
			monitoring.RecordCustomerOperation("edit", outcomeNotFound)
			return nil, apperrors.ErrNotFound
		}
		log.ErrorContext(ctx, "Repository error editing customer", slog.Any("error", err))
		monitoring.RecordCustomerOperation("edit", outcomeFailure)
		return nil, fmt.Errorf("failed to edit customer %d: %w", customerID, err)
	}

	log.InfoContext(ctx, "Successfully edited customer, publishing update event")
	updatedEvent := event.CustomerUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(updated),
	}
	if pubErr := s.pub.PublishCustomerUpdated(ctx, updatedEvent); pubErr != nil {
		log.ErrorContext(ctx, "Customer edited, but FAILED to publish update event", slog.Any("error", pubErr))
	}

	monitoring.RecordCustomerOperation("edit", outcomeSuccess)
	return updated, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Attempting to delete customer")

	var removed *Customer
	err := s.repo.WithinTx(ctx, func(repo CustomerRepository) error {
		existing, err := repo.FindByID(ctx, customerID)
		if err != nil {
			return err
		}
		if err := repo.Remove(ctx, existing); err != nil {
			return err
		}
		removed = existing
		return nil
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			log.WarnContext(ctx, customerNotFound)
			monitoring.RecordCustomerOperation("delete", outcomeNotFound)
			return apperrors.ErrNotFound
		}
		log.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		monitoring.RecordCustomerOperation("delete", outcomeFailure)
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	log.InfoContext(ctx, "Successfully deleted customer, publishing deletion event")
	deletedEvent := event.CustomerDeletedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(removed),
	}
	if pubErr := s.pub.PublishCustomerDeleted(ctx, deletedEvent); pubErr != nil {
		log.ErrorContext(ctx, "Customer deleted, but FAILED to publish deletion event", slog.Any("error", pubErr))
	}

	monitoring.RecordCustomerOperation("delete", outcomeSuccess)
	return nil
}

func (s *customerService) SearchCustomers(ctx context.Context, term string) ([]*Customer, error) {
	log := s.logger.With(slog.String("searchTerm", term))
	log.InfoContext(ctx, "Attempting to search customers")

	customers, err := s.repo.Search(ctx, term)
	if err != nil {
		log.ErrorContext(ctx, "Repository error searching customers", slog.Any("error", err))
		monitoring.RecordCustomerOperation("search", outcomeFailure)
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}

	if len(customers) == 0 {
		log.WarnContext(ctx, "No customers matched search term")
		monitoring.RecordCustomerOperation("search", outcomeNotFound)
		return nil, apperrors.ErrNotFound
	}

	log.InfoContext(ctx, "Successfully searched customers", slog.Int("count", len(customers)))
	monitoring.RecordCustomerOperation("search", outcomeSuccess)
	return customers, nil
}
