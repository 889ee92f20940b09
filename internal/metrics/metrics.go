package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsmanual_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "opsmanual_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsmanual_auth_events_total",
		Help: "Authentication operations by outcome",
	}, []string{"operation", "outcome"})

	accessDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsmanual_access_denied_total",
		Help: "Requests rejected by the role or tenant guard",
	}, []string{"guard"})

	purgedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsmanual_purged_records_total",
		Help: "Expired credentials removed by background jobs",
	}, []string{"kind"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveAuth counts a login, refresh, logout or reset outcome.
func ObserveAuth(operation, outcome string) {
	authEvents.WithLabelValues(operation, outcome).Inc()
}

// ObserveDenied counts a guard rejection ("role" or "tenant").
func ObserveDenied(guard string) {
	accessDenied.WithLabelValues(guard).Inc()
}

func ObservePurge(kind string, n int64) {
	if n > 0 {
		purgedRecords.WithLabelValues(kind).Add(float64(n))
	}
}
