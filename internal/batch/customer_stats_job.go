package batch

import (
	"context"
	"customer-api/internal/infrastructure/monitoring"
	"fmt"
	"log/slog"
	"time"
)

type CustomerCounter interface {
	Count(ctx context.Context) (int64, error)
}

// CustomerStatsJob exports the number of stored customers as a gauge.
type CustomerStatsJob struct {
	counter CustomerCounter
	logger  *slog.Logger
}

func NewCustomerStatsJob(counter CustomerCounter, logger *slog.Logger) *CustomerStatsJob {
	if counter == nil || logger == nil {
		panic("CustomerStatsJob dependencies cannot be nil")
	}
	return &CustomerStatsJob{
		counter: counter,
		logger:  logger.With("job", "CustomerStats"),
	}
}

// Run leaves the gauge untouched when the count fails.
func (j *CustomerStatsJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting customer statistics job.")

	count, err := j.counter.Count(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count customers, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to count customers: %w", err)
	}

	monitoring.SetCustomersStored(count)

	j.logger.InfoContext(ctx, "Customer statistics job finished.",
		slog.Int64("customers_stored", count),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
