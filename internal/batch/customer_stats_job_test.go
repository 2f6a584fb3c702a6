package batch_test

import (
	"context"
	"customer-api/internal/batch"
	"customer-api/internal/infrastructure/monitoring"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNewCustomerStatsJobPanicsOnNilDeps(t *testing.T) {
	assert.Panics(t, func() { batch.NewCustomerStatsJob(nil, logger) })
	assert.Panics(t, func() { batch.NewCustomerStatsJob(new(MockCounter), nil) })
}

func TestCustomerStatsJobRun(t *testing.T) {
	t.Run("sets the gauge", func(t *testing.T) {
		counter := new(MockCounter)
		counter.On("Count", mock.Anything).Return(int64(42), nil)

		err := batch.NewCustomerStatsJob(counter, logger).Run(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, float64(42), testutil.ToFloat64(monitoring.Business.CustomersStored))
		counter.AssertExpectations(t)
	})

	t.Run("keeps the previous value on failure", func(t *testing.T) {
		monitoring.SetCustomersStored(7)
		counter := new(MockCounter)
		counter.On("Count", mock.Anything).Return(int64(0), errors.New("db down"))

		err := batch.NewCustomerStatsJob(counter, logger).Run(context.Background())

		assert.ErrorContains(t, err, "failed to count customers")
		assert.Equal(t, float64(7), testutil.ToFloat64(monitoring.Business.CustomersStored))
	})
}
