package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("should count transitions by side and target status", func(t *testing.T) {
		m := metrics.New()

		m.RecordTransition(kernel.Sales, bundle.Issued)
		m.RecordTransition(kernel.Sales, bundle.Issued)
		m.RecordTransition(kernel.Purchase, bundle.Paid)
		m.RecordDeletion(kernel.Purchase)

		body := scrape(t, m)
		assert.Contains(t, body, `settlement_bundle_transitions_total{side="sales",to="issued"} 2`)
		assert.Contains(t, body, `settlement_bundle_transitions_total{side="purchase",to="paid"} 1`)
		assert.Contains(t, body, `settlement_bundle_deletions_total{side="purchase"} 1`)
	})

	t.Run("should label requests with the route pattern", func(t *testing.T) {
		m := metrics.New()
		e := echo.New()
		e.Use(m.Middleware())
		e.GET("/api/v1/bundles/:id", func(c echo.Context) error {
			return c.NoContent(http.StatusNoContent)
		})
		e.GET("/boom", func(echo.Context) error {
			return echo.NewHTTPError(http.StatusTeapot)
		})

		for _, path := range []string{"/api/v1/bundles/1", "/api/v1/bundles/2", "/boom"} {
			e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		}

		body := scrape(t, m)
		assert.Contains(t, body, `settlement_http_requests_total{code="204",method="GET",route="/api/v1/bundles/:id"} 2`)
		assert.Contains(t, body, `settlement_http_requests_total{code="418",method="GET",route="/boom"} 1`)
		assert.Contains(t, body, `settlement_http_request_duration_seconds_count{method="GET",route="/api/v1/bundles/:id"} 2`)
	})

	t.Run("should tolerate a nil receiver", func(t *testing.T) {
		var m *metrics.Metrics

		assert.NotPanics(t, func() { m.RecordTransition(kernel.Sales, bundle.Paid) })
		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return strings.TrimSpace(rec.Body.String())
}
