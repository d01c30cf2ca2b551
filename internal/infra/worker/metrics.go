package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReloadRunsTotal counts scheduled reload runs by status (success, failure).
	ReloadRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "headline_reload_job_runs_total",
		Help: "Total number of scheduled dataset reloads by status",
	}, []string{"status"})

	// ReloadDurationSeconds measures one scheduled reload, successful or not.
	ReloadDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "headline_reload_job_duration_seconds",
		Help:    "Duration of scheduled dataset reloads in seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
	})

	// ReloadLastSuccessTimestamp is the Unix time of the last successful scheduled reload.
	ReloadLastSuccessTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "headline_reload_job_last_success_timestamp",
		Help: "Unix timestamp of the last successful scheduled dataset reload",
	})
)

func recordRun(success bool, seconds float64) {
	status := "success"
	if !success {
		status = "failure"
	}
	ReloadRunsTotal.WithLabelValues(status).Inc()
	ReloadDurationSeconds.Observe(seconds)
	if success {
		ReloadLastSuccessTimestamp.SetToCurrentTime()
	}
}
