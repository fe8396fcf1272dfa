package metrics

import (
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestsCounter(t *testing.T) {
	// given
	reg := prometheus.NewRegistry()
	counter := NewRequestsCounter()
	require.NoError(t, counter.Register(reg))

	// when
	counter.Observe(http.MethodGet, http.StatusOK)
	counter.Observe(http.MethodGet, http.StatusOK)
	counter.Observe(http.MethodPost, http.StatusForbidden)

	// then
	assert.Equal(t, float64(2), testutil.ToFloat64(counter.requests.WithLabelValues(http.MethodGet, "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(counter.requests.WithLabelValues(http.MethodPost, "403")))
	assert.Equal(t, 2, testutil.CollectAndCount(counter.requests))

	expected := `
# HELP migration_dbclient_requests_total The number of requests sent to the workspace REST API
# TYPE migration_dbclient_requests_total counter
migration_dbclient_requests_total{code="200",method="GET"} 2
migration_dbclient_requests_total{code="403",method="POST"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "migration_dbclient_requests_total"))
}

func TestRequestsCounter_RegisterTwice(t *testing.T) {
	// given
	reg := prometheus.NewRegistry()
	counter := NewRequestsCounter()
	require.NoError(t, counter.Register(reg))

	// then
	assert.Error(t, counter.Register(reg))
}
