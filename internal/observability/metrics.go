package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	apiRequestsTotal         *prometheus.CounterVec
	apiLatencySeconds        *prometheus.HistogramVec
	apiErrorsTotal           *prometheus.CounterVec
	auditAppendFailuresTotal *prometheus.CounterVec
	activityListTotal        *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learnvault_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "learnvault_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learnvault_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		auditAppendFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learnvault_audit_append_failures_total",
			Help: "Activity records that could not be appended after a successful mutation.",
		}, []string{"action"})

		activityListTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learnvault_activity_list_requests_total",
			Help: "Activity list queries partitioned by cache outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, auditAppendFailuresTotal, activityListTotal)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// AuditAppendFailures exposes the counter for swallowed audit-append errors.
func AuditAppendFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return auditAppendFailuresTotal
}

// ActivityListRequests exposes the counter for activity list cache outcomes.
func ActivityListRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return activityListTotal
}
