// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks the current number of HTTP requests being processed
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Dataset and search metrics
var (
	// SnapshotArticles tracks the number of articles in the current snapshot
	SnapshotArticles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "headline_snapshot_articles",
			Help: "Number of articles in the currently loaded snapshot",
		},
	)

	// SnapshotUndatedArticles tracks snapshot articles without an extractable date
	SnapshotUndatedArticles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "headline_snapshot_undated_articles",
			Help: "Number of snapshot articles whose image name has no valid date",
		},
	)

	// DatasetLoadsTotal counts dataset loads by source and result
	DatasetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headline_dataset_loads_total",
			Help: "Total number of dataset loads",
		},
		[]string{"source", "result"},
	)

	// DatasetLoadDuration measures time to read and index the dataset
	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "headline_dataset_load_duration_seconds",
			Help:    "Time taken to load the headline dataset",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// SearchesTotal counts tag searches
	SearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "headline_searches_total",
			Help: "Total number of tag searches",
		},
	)

	// SearchResults observes result counts per search
	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "headline_search_results",
			Help:    "Number of articles returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// SearchDuration measures the in-memory filter time
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "headline_search_duration_seconds",
			Help:    "Time taken to filter the snapshot",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
	)
)

// Image and analysis metrics
var (
	// ImageFetchTotal counts image fetches by source and result
	ImageFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headline_image_fetch_total",
			Help: "Total number of image fetches",
		},
		[]string{"source", "result"}, // result: success, not_found, failure
	)

	// ImageFetchDuration measures image fetch latency
	ImageFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "headline_image_fetch_duration_seconds",
			Help:    "Time taken to fetch an image",
			Buckets: []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
		[]string{"source"},
	)

	// AnalysisRequestsTotal counts analysis calls by provider and result
	AnalysisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headline_analysis_requests_total",
			Help: "Total number of image analysis requests",
		},
		[]string{"provider", "result"},
	)

	// AnalysisDuration measures analysis latency per provider
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "headline_analysis_duration_seconds",
			Help:    "Time taken by the vision model to analyze an image",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"provider"},
	)
)

// Migration metrics
var (
	// MigrationRowsTotal counts migrated rows by outcome
	MigrationRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headline_migration_rows_total",
			Help: "Total number of rows processed by the migration job",
		},
		[]string{"outcome"}, // outcome: inserted, insert_error, uploaded, upload_error, missing_image
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "insert_headline", "list_headlines").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
