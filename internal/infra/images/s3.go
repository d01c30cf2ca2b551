package images

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/infra/storage"
	"headline-desk/internal/observability/metrics"
	"headline-desk/internal/resilience/circuitbreaker"
	"headline-desk/internal/resilience/retry"
)

// ObjectGetter reads objects from a bucket. *storage.S3 implements it.
type ObjectGetter interface {
	Get(ctx context.Context, key string, maxBytes int64) (*storage.Object, error)
}

// S3Source reads images migrated into a bucket under a key prefix.
type S3Source struct {
	store    ObjectGetter
	prefix   string
	maxBytes int64
	breaker  *circuitbreaker.CircuitBreaker
	retry    retry.Config
}

// NewS3Source creates a bucket-backed source. Keys are prefix + image name.
func NewS3Source(store ObjectGetter, prefix string, maxBytes int64) *S3Source {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	cbCfg := circuitbreaker.StorageConfig()
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrImageNotFound)
	}
	return &S3Source{
		store:    store,
		prefix:   prefix,
		maxBytes: maxBytes,
		breaker:  circuitbreaker.New(cbCfg),
		retry:    retry.ImageFetchConfig(),
	}
}

// Fetch downloads the named image from the bucket.
func (s *S3Source) Fetch(ctx context.Context, imageName string) (*entity.Image, error) {
	if err := entity.ValidateImageName(imageName); err != nil {
		return nil, err
	}

	start := time.Now()
	var obj *storage.Object
	err := retry.WithBackoff(ctx, s.retry, func() error {
		var err error
		obj, err = circuitbreaker.Run(s.breaker, func() (*storage.Object, error) {
			o, err := s.store.Get(ctx, s.prefix+imageName, s.maxBytes)
			if errors.Is(err, storage.ErrObjectNotFound) {
				return nil, ErrImageNotFound
			}
			return o, err
		})
		return err
	})
	metrics.RecordImageFetch("s3", fetchResult(err), time.Since(start))

	if err != nil {
		if !errors.Is(err, ErrImageNotFound) {
			slog.WarnContext(ctx, "image read from bucket failed",
				slog.String("image", imageName),
				slog.Any("error", err))
		}
		return nil, fmt.Errorf("fetch %s: %w", imageName, err)
	}

	img := newImage(imageName, obj.Data)
	if obj.ContentType != "" {
		img.ContentType = obj.ContentType
	}
	return img, nil
}

// Breaker returns the circuit breaker guarding the bucket.
func (s *S3Source) Breaker() *circuitbreaker.CircuitBreaker { return s.breaker }
