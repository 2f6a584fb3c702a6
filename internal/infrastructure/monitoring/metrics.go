package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersStored  prometheus.Gauge
	CustomerOpsTotal *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "customer_api_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomersStored: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "customer_api_customers_stored",
				Help: "Number of customer rows at the last statistics run.",
			},
		),
		CustomerOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_api_customer_operations_total",
				Help: "Total number of completed customer operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func SetCustomersStored(count int64) {
	Business.CustomersStored.Set(float64(count))
}

func RecordCustomerOperation(operation, outcome string) {
	Business.CustomerOpsTotal.WithLabelValues(operation, outcome).Inc()
}
