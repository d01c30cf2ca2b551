package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/observability/metrics"
	"headline-desk/internal/resilience/circuitbreaker"
	"headline-desk/internal/resilience/retry"
)

// HTTPSource downloads images from BaseURL + escaped name.
type HTTPSource struct {
	baseURL  string
	client   *http.Client
	maxBytes int64
	breaker  *circuitbreaker.CircuitBreaker
	retry    retry.Config
}

// NewHTTPSource creates an HTTP image source. A nil client gets a 15 second timeout.
func NewHTTPSource(baseURL string, client *http.Client, maxBytes int64) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	cbCfg := circuitbreaker.ImageFetchConfig()
	// a missing image says nothing about the health of the host
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrImageNotFound)
	}

	return &HTTPSource{
		baseURL:  baseURL,
		client:   client,
		maxBytes: maxBytes,
		breaker:  circuitbreaker.New(cbCfg),
		retry:    retry.ImageFetchConfig(),
	}
}

// URL returns the address an image is downloaded from.
func (s *HTTPSource) URL(imageName string) string {
	return s.baseURL + url.PathEscape(imageName)
}

// Fetch downloads the named image.
func (s *HTTPSource) Fetch(ctx context.Context, imageName string) (*entity.Image, error) {
	if err := entity.ValidateImageName(imageName); err != nil {
		return nil, err
	}

	start := time.Now()
	var data []byte
	err := retry.WithBackoff(ctx, s.retry, func() error {
		var err error
		data, err = circuitbreaker.Run(s.breaker, func() ([]byte, error) {
			return s.download(ctx, s.URL(imageName))
		})
		return err
	})
	metrics.RecordImageFetch("http", fetchResult(err), time.Since(start))

	if err != nil {
		if !errors.Is(err, ErrImageNotFound) {
			slog.WarnContext(ctx, "image download failed",
				slog.String("image", imageName),
				slog.Any("error", err))
		}
		return nil, fmt.Errorf("fetch %s: %w", imageName, err)
	}
	return newImage(imageName, data), nil
}

func (s *HTTPSource) download(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "headline-desk/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrImageNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, retry.NewHTTPError(resp)
	}
	if resp.ContentLength > s.maxBytes {
		return nil, ErrImageTooLarge
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if n > s.maxBytes {
		return nil, ErrImageTooLarge
	}
	return buf.Bytes(), nil
}

// Breaker returns the circuit breaker guarding the image host.
func (s *HTTPSource) Breaker() *circuitbreaker.CircuitBreaker { return s.breaker }
