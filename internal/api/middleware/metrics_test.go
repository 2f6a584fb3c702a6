package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	httpRequestsTotal.Reset()
	httpRequestDuration.Reset()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Get("/api/customer/search/{searchTerm}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	for _, path := range []string{"/api/customer/search/foo", "/api/customer/search/bar", "/ok"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	expectedTotal := `
		# HELP customer_api_http_requests_total Total number of HTTP requests.
		# TYPE customer_api_http_requests_total counter
		customer_api_http_requests_total{method="GET",path="/api/customer/search/{searchTerm}",status_code="404"} 2
		customer_api_http_requests_total{method="GET",path="/ok",status_code="200"} 1
	`
	if err := testutil.CollectAndCompare(httpRequestsTotal, strings.NewReader(expectedTotal)); err != nil {
		t.Errorf("unexpected metrics for customer_api_http_requests_total: %v", err)
	}
	assert.Equal(t, 2, testutil.CollectAndCount(httpRequestDuration))
}

func TestRoutePatternOfWithoutRouteContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	assert.Equal(t, unmatchedRoute, routePatternOf(req))
}
