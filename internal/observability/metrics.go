package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	httpErrorsTotal        *prometheus.CounterVec
	reviewVerdictsTotal    *prometheus.CounterVec
	eligibilityChecksTotal *prometheus.CounterVec
	rankingCacheTotal      *prometheus.CounterVec
	uploadRequestsTotal    *prometheus.CounterVec
	uploadRejectedTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuimian_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tuimian_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuimian_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		reviewVerdictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuimian_review_verdicts_total",
			Help: "Review verdicts recorded, labelled by outcome.",
		}, []string{"verdict"})

		eligibilityChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuimian_eligibility_checks_total",
			Help: "Eligibility pre-checks evaluated, labelled by outcome.",
		}, []string{"outcome"})

		rankingCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuimian_ranking_cache_total",
			Help: "Ranking snapshot cache lookups, labelled hit or miss.",
		}, []string{"result"})

		uploadRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuimian_upload_requests_total",
			Help: "Evidence uploads accepted, labelled by detected type.",
		}, []string{"type"})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuimian_upload_rejected_total",
			Help: "Evidence uploads rejected, labelled by reason.",
		}, []string{"reason"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			reviewVerdictsTotal,
			eligibilityChecksTotal,
			rankingCacheTotal,
			uploadRequestsTotal,
			uploadRejectedTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// ReviewVerdicts exposes the counter for recorded verdicts.
func ReviewVerdicts() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewVerdictsTotal
}

// EligibilityChecks exposes the counter for policy pre-checks.
func EligibilityChecks() *prometheus.CounterVec {
	RegisterMetrics()
	return eligibilityChecksTotal
}

// RankingCacheHits exposes the counter for ranking snapshot lookups.
func RankingCacheHits() *prometheus.CounterVec {
	RegisterMetrics()
	return rankingCacheTotal
}

// UploadRequests exposes the counter for accepted uploads.
func UploadRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRequestsTotal
}

// UploadRejected exposes the counter for rejected uploads.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}
