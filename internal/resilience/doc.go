// Package resilience groups the fault tolerance helpers used around external calls:
// the spreadsheet download, image fetches, vision model requests, object storage
// uploads and database access.
//
// Subpackages:
//   - retry: exponential backoff with jitter for transient failures
//   - circuitbreaker: github.com/sony/gobreaker wrapper with per-dependency presets
//
// Typical use wraps the breaker inside the retry loop so that an open circuit stops
// retrying immediately:
//
//	err := retry.WithBackoff(ctx, retry.AIAPIConfig(), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) {
//	        return nil, callProvider(ctx)
//	    })
//	    return err
//	})
package resilience
