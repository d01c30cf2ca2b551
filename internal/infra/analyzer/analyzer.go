package analyzer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/resilience/circuitbreaker"
	"headline-desk/internal/resilience/retry"
	"headline-desk/internal/utils/text"
)

var (
	// ErrEmptyImage is returned when there are no image bytes to send.
	ErrEmptyImage = errors.New("image has no data")

	// ErrEmptyResponse is returned when the model answers without any text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// previewRunes bounds the response excerpt in debug logs.
const previewRunes = 120

// caller holds the reliability plumbing shared by the real providers.
type caller struct {
	name    string
	timeout time.Duration
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	metrics MetricsRecorder
}

// call runs do under a per-call timeout, retry with backoff and the circuit breaker.
func (c *caller) call(ctx context.Context, img *entity.Image, do func(ctx context.Context) (string, error)) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", ErrEmptyImage
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result string
	err := retry.WithBackoff(ctx, c.retry, func() error {
		requestID := uuid.New().String()
		start := time.Now()

		out, err := circuitbreaker.Run(c.breaker, func() (string, error) {
			return do(ctx)
		})
		duration := time.Since(start)

		if err != nil {
			if circuitbreaker.IsRejection(err) {
				slog.WarnContext(ctx, "analysis rejected, circuit breaker open",
					slog.String("provider", c.name),
					slog.String("state", c.breaker.State().String()))
				return fmt.Errorf("%s api unavailable: %w", c.name, err)
			}
			c.metrics.RecordCall(c.name, false, duration)
			slog.ErrorContext(ctx, "analysis failed",
				slog.String("provider", c.name),
				slog.String("request_id", requestID),
				slog.String("image", img.Name),
				slog.Duration("duration", duration),
				slog.String("error", err.Error()))
			return err
		}

		runes := text.CountRunes(out)
		c.metrics.RecordCall(c.name, true, duration)
		c.metrics.RecordResponseLength(c.name, runes)
		slog.InfoContext(ctx, "analysis completed",
			slog.String("provider", c.name),
			slog.String("request_id", requestID),
			slog.String("image", img.Name),
			slog.Int("response_length", runes),
			slog.Duration("duration", duration))
		slog.DebugContext(ctx, "analysis preview",
			slog.String("request_id", requestID),
			slog.String("preview", text.Truncate(out, previewRunes)))

		result = out
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s analyze failed: %w", c.name, err)
	}
	return result, nil
}

// dataURL encodes an image as a data: URL.
func dataURL(img *entity.Image) string {
	return "data:" + contentType(img) + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func contentType(img *entity.Image) string {
	if img.ContentType != "" {
		return img.ContentType
	}
	return entity.ImageMIMEType(img.Name)
}

// statusError attaches a retry.HTTPError to an SDK error so that retry can classify it.
func statusError(provider string, status int, err error) error {
	if status == 0 {
		return fmt.Errorf("%s api error: %w", provider, err)
	}
	httpErr := &retry.HTTPError{StatusCode: status, Message: err.Error()}
	return fmt.Errorf("%s api error: %w: %w", provider, httpErr, err)
}

func joinText(parts []string) (string, error) {
	out := strings.TrimSpace(strings.Join(parts, "\n"))
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
