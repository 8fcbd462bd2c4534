package armormock

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the mock's Prometheus collectors. Each Server carries its
// own registry so tests can run mocks side by side without collector
// collisions.
type metrics struct {
	requests *prometheus.CounterVec
	verdicts *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "armormock_requests_total",
			Help: "API requests handled, by method and status code.",
		}, []string{"method", "code"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "armormock_sanitize_verdicts_total",
			Help: "Sanitization verdicts, by payload source and match state.",
		}, []string{"source", "match_state"}),
	}
	reg.MustRegister(m.requests, m.verdicts)
	return m
}

func (m *metrics) observeRequest(method string, code int) {
	m.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

func (m *metrics) observeVerdict(source string, state string) {
	m.verdicts.WithLabelValues(source, state).Inc()
}
