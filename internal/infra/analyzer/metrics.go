package analyzer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"headline-desk/internal/observability/metrics"
)

// MetricsRecorder records the outcome of analysis calls.
// Tests inject their own recorder to assert on what was recorded.
type MetricsRecorder interface {
	// RecordCall records one provider call, including calls that failed.
	RecordCall(provider string, success bool, duration time.Duration)

	// RecordResponseLength records the length of a successful response in runes.
	RecordResponseLength(provider string, runes int)
}

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors.
type PrometheusMetrics struct {
	responseLength *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics returns the process-wide recorder. The collectors are registered once.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			responseLength: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "headline_analysis_response_runes",
					Help:    "Length of vision model responses in characters (Unicode runes)",
					Buckets: []float64{100, 250, 500, 1000, 1500, 2000, 3000},
				},
				[]string{"provider"},
			),
		}
	})
	return prometheusMetricsInstance
}

// RecordCall implements MetricsRecorder.
func (p *PrometheusMetrics) RecordCall(provider string, success bool, duration time.Duration) {
	metrics.RecordAnalysis(provider, success, duration)
}

// RecordResponseLength implements MetricsRecorder.
func (p *PrometheusMetrics) RecordResponseLength(provider string, runes int) {
	p.responseLength.WithLabelValues(provider).Observe(float64(runes))
}
