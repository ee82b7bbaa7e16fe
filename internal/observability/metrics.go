package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	submissionsTotal         *prometheus.CounterVec
	submissionLatencySeconds *prometheus.HistogramVec
	draftSessionsOpen        prometheus.Gauge
	referenceCacheTotal      *prometheus.CounterVec
	httpRequestsTotal        *prometheus.CounterVec
	httpLatencySeconds       *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the drafting API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_submissions_total",
			Help: "Total number of assessment submissions by type and outcome.",
		}, []string{"type", "outcome"})

		submissionLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assessment_submission_latency_seconds",
			Help:    "Latency distribution for assessment create submissions.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"type"})

		draftSessionsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "assessment_draft_sessions_open",
			Help: "Number of draft sessions currently held in memory.",
		})

		referenceCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reference_cache_requests_total",
			Help: "Reference data cache lookups by collection and result.",
		}, []string{"collection", "result"})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_http_requests_total",
			Help: "HTTP requests served, by method, route template and status.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assessment_http_request_latency_seconds",
			Help:    "HTTP request latency distribution by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(submissionsTotal, submissionLatencySeconds, draftSessionsOpen, referenceCacheTotal, httpRequestsTotal, httpLatencySeconds)
	})
}

// Submissions exposes the counter for assessment submissions.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// SubmissionLatency exposes the latency histogram for submissions.
func SubmissionLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return submissionLatencySeconds
}

// DraftSessions exposes the gauge tracking open draft sessions.
func DraftSessions() prometheus.Gauge {
	RegisterMetrics()
	return draftSessionsOpen
}

// ReferenceCache exposes the counter for reference cache lookups.
func ReferenceCache() *prometheus.CounterVec {
	RegisterMetrics()
	return referenceCacheTotal
}

// HTTPRequests exposes the counter for served HTTP requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for served HTTP requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}
