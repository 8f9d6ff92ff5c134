package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HTTPRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "http_request_duration_seconds",
	Help:    "Duration of HTTP requests in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path", "status"})

var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of HTTP requests.",
}, []string{"method", "path", "status"})

var HTTPResponseSizeBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "http_response_size_bytes",
	Help:    "Size of HTTP responses in bytes.",
	Buckets: prometheus.ExponentialBuckets(64, 4, 8),
}, []string{"method", "path", "status"})

var InFlightRequests = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "http_in_flight_requests",
	Help: "Current number of in-flight HTTP requests.",
})

// Database Metrics
var DBQueryDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "db_query_duration_seconds",
	Help:    "Duration of database queries in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"query_type", "repository", "status"})

var DBQueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "db_query_errors_total",
	Help: "Total number of failed database queries.",
}, []string{"query_type", "repository"})

// DBTimer measures one repository query.
type DBTimer struct {
	queryType  string
	repository string
	status     string
	timer      *prometheus.Timer
}

func NewDBTimer(queryType, repository string) *DBTimer {
	t := &DBTimer{queryType: queryType, repository: repository, status: "success"}
	t.timer = prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		DBQueryDurationSeconds.WithLabelValues(t.queryType, t.repository, t.status).Observe(v)
	}))
	return t
}

// Done records the duration, counting the query as failed when err is non-nil.
func (t *DBTimer) Done(err error) {
	if err != nil {
		t.status = "error"
		DBQueryErrorsTotal.WithLabelValues(t.queryType, t.repository).Inc()
	}
	t.timer.ObserveDuration()
}
