package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"headline-desk/internal/resilience/circuitbreaker"
	"headline-desk/internal/resilience/retry"
)

// defaultMaxBytes caps a download when the loader has no explicit limit.
const defaultMaxBytes int64 = 32 << 20

// fetcher reads a dataset file from disk or over HTTP.
type fetcher struct {
	client   *http.Client
	maxBytes int64
	breaker  *circuitbreaker.CircuitBreaker
	retry    retry.Config
}

func newFetcher(client *http.Client, maxBytes int64) *fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &fetcher{
		client:   client,
		maxBytes: maxBytes,
		breaker:  circuitbreaker.New(circuitbreaker.DatasetFetchConfig()),
		retry:    retry.DatasetFetchConfig(),
	}
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// read returns the full content of path.
func (f *fetcher) read(ctx context.Context, path string) ([]byte, error) {
	if !isRemote(path) {
		// #nosec G304 -- path comes from operator configuration
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dataset %s: %w", path, err)
		}
		return data, nil
	}

	var data []byte
	err := retry.WithBackoff(ctx, f.retry, func() error {
		var err error
		data, err = circuitbreaker.Run(f.breaker, func() ([]byte, error) {
			return f.download(ctx, path)
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("download dataset: %w", err)
	}
	return data, nil
}

func (f *fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "headline-desk/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, retry.NewHTTPError(resp)
	}
	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if n > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}
	return buf.Bytes(), nil
}
