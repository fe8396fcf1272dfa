package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	prometheusNamespace = "migration"
	prometheusSubsystem = "dbclient"
)

// exposed metrics:
// - migration_dbclient_requests_total{method, code}
type RequestsCounter struct {
	requests *prometheus.CounterVec
}

func NewRequestsCounter() *RequestsCounter {
	return &RequestsCounter{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prometheusNamespace,
				Subsystem: prometheusSubsystem,
				Name:      "requests_total",
				Help:      "The number of requests sent to the workspace REST API",
			},
			[]string{"method", "code"},
		),
	}
}

func (c *RequestsCounter) Register(reg prometheus.Registerer) error {
	return reg.Register(c.requests)
}

func (c *RequestsCounter) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.requests)
}

// Observe counts a completed request.
func (c *RequestsCounter) Observe(method string, code int) {
	c.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}
