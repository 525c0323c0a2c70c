package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/api/operators", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/operators", http.StatusOK, 7*time.Millisecond)
	m.Expand(OutcomeFound)
	m.Geocode(OutcomeTimeout)
	m.SetOperatorRecords(1234)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/operators", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExpandOutcomes.WithLabelValues(OutcomeFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GeocodeOutcomes.WithLabelValues(OutcomeTimeout)))
	assert.Equal(t, 1234.0, testutil.ToFloat64(m.OperatorRecords))
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Expand(OutcomeError)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ExpandOutcomes.WithLabelValues(OutcomeError)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.SetOperatorRecords(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "carriermap_operator_records 3")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
