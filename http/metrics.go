package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolution outcomes recorded in cfgchain_resolutions_total.
const (
	OutcomePresent = "present"
	OutcomeAbsent  = "absent"
	OutcomeError   = "error"
)

// UnknownName labels resolutions of names the store has no provider for.
const UnknownName = "unknown"

// Metrics holds the server's Prometheus collectors in a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

// NewMetrics creates and registers the server's collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cfgchain_resolutions_total",
				Help: "Logical name resolutions by outcome",
			},
			[]string{"name", "outcome"},
		),
		requests: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cfgchain_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
	m.registry.MustRegister(m.resolutions, m.requests)
	return m
}

// Registry returns the registry the collectors are registered in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordResolution counts one resolution of name.
func (m *Metrics) RecordResolution(name string, present bool, err error) {
	outcome := OutcomeAbsent
	switch {
	case err != nil:
		outcome = OutcomeError
	case present:
		outcome = OutcomePresent
	}
	m.resolutions.WithLabelValues(name, outcome).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	m.requests.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// Handler returns the Prometheus exposition handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
