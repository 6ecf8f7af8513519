package zilliz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks request counts and latencies per plane. Outcome is either
// "success" or the failure kind, so business errors and transport failures
// are distinguishable on a dashboard without log archaeology.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the client metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zilliz_mcp",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Remote API requests by plane and outcome.",
		}, []string{"plane", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zilliz_mcp",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Remote API request latency by plane.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"plane"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// observe records one finished request.
func (m *Metrics) observe(plane Plane, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(string(plane), outcome).Inc()
	m.duration.WithLabelValues(string(plane)).Observe(elapsed.Seconds())
}
