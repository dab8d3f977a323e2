// Package metrics exposes Prometheus collectors for the server. Collectors
// register themselves on the default registry; callers expose them with
// promhttp on whatever listener they choose.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts completed responses by status code.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpserver_requests_total",
			Help: "Total number of HTTP responses sent",
		},
		[]string{"status"},
	)

	// ActiveConnections tracks currently running connection sessions.
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpserver_active_connections",
			Help: "Current number of active connection sessions",
		},
	)

	// BodyBytesSent counts file body bytes streamed to clients.
	BodyBytesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "httpserver_body_bytes_sent_total",
			Help: "Total file body bytes streamed to clients",
		},
	)

	// RequestDuration observes time from frame completion to response sent.
	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "httpserver_request_duration_seconds",
			Help:    "Request handling duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
