package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
)

// Metrics tracks store mutations and HTTP traffic.
type Metrics struct {
	Mutations       *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventdesk_store_mutations_total",
			Help: "Store mutations by operation and whether the target existed",
		}, []string{"op", "result"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eventdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status code",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

// ObserveMutation counts one store mutation. Missed mutations referenced an
// identifier that no longer exists.
func (m *Metrics) ObserveMutation(op string, applied bool) {
	result := "applied"
	if !applied {
		result = "missed"
	}
	m.Mutations.WithLabelValues(op, result).Inc()
}

// ObserveRequest records the duration of a request that started at start.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

var _ ports.MutationRecorder = (*Metrics)(nil)
