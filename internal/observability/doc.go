// Package observability provides the observability infrastructure shared by the
// API server, the CLIs and the migration job.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//
// Example usage:
//
//	import (
//	    "headline-desk/internal/observability/logging"
//	    "headline-desk/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordDatasetLoad("xlsx", 120, 3, time.Second, nil)
//	}
package observability
