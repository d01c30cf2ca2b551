package metrics

import (
	"time"
)

// RecordDatasetLoad records the outcome of a dataset load.
// On success the snapshot gauges are updated with the number of loaded and undated articles.
func RecordDatasetLoad(source string, articles, undated int, duration time.Duration, err error) {
	if err != nil {
		DatasetLoadsTotal.WithLabelValues(source, "failure").Inc()
		return
	}
	DatasetLoadsTotal.WithLabelValues(source, "success").Inc()
	DatasetLoadDuration.Observe(duration.Seconds())
	SnapshotArticles.Set(float64(articles))
	SnapshotUndatedArticles.Set(float64(undated))
}

// RecordSearch records a completed tag search.
func RecordSearch(results int, duration time.Duration) {
	SearchesTotal.Inc()
	SearchResults.Observe(float64(results))
	SearchDuration.Observe(duration.Seconds())
}

// RecordImageFetch records an image fetch by source ("http", "file", "s3").
// Result should be one of "success", "not_found" or "failure".
func RecordImageFetch(source, result string, duration time.Duration) {
	ImageFetchTotal.WithLabelValues(source, result).Inc()
	ImageFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordAnalysis records an image analysis call for the given provider.
func RecordAnalysis(provider string, success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	AnalysisRequestsTotal.WithLabelValues(provider, result).Inc()
	AnalysisDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordMigrationOutcome increments the migration counter for one row outcome.
func RecordMigrationOutcome(outcome string) {
	MigrationRowsTotal.WithLabelValues(outcome).Inc()
}
