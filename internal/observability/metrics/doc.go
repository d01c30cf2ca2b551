// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Dataset metrics (snapshot size, load duration, load failures)
//   - Search, image fetch and image analysis metrics
//   - Migration job metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "headline-desk/internal/observability/metrics"
//
//	func search(tag string) {
//	    start := time.Now()
//	    // ... filter the snapshot ...
//	    metrics.RecordSearch(len(results), time.Since(start))
//	}
package metrics
