// Package metrics defines the Prometheus instrumentation for the
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seoscan_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seoscan_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AuditRunsTotal counts audit runs by outcome.
	AuditRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seoscan_audit_runs_total",
			Help: "Total number of audit runs by outcome.",
		},
		[]string{"outcome"},
	)

	// AuditRunDuration observes how long a full audit run takes.
	AuditRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seoscan_audit_run_duration_seconds",
			Help:    "Duration of a full audit run in seconds.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		},
	)

	// FetchesTotal counts page fetches by result.
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seoscan_fetches_total",
			Help: "Total number of page fetches by result.",
		},
		[]string{"result"},
	)

	// ProviderRequestsTotal counts performance provider calls.
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seoscan_provider_requests_total",
			Help: "Total number of performance provider requests.",
		},
		[]string{"strategy", "result"},
	)
)
