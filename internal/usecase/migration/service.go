// Package migration copies the headline dataset into the relational table and the
// scanned images into object storage in one forward pass.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/observability/metrics"
	"headline-desk/internal/repository"
	"headline-desk/internal/resilience/circuitbreaker"
	"headline-desk/internal/resilience/retry"
	"headline-desk/internal/usecase/headline"
)

const defaultParallelism = 4

// Row outcomes recorded in metrics.
const (
	outcomeInserted     = "inserted"
	outcomeInsertError  = "insert_error"
	outcomeMissingImage = "missing_image"
	outcomeUploadError  = "upload_error"
)

// Uploader writes objects to the bucket. *storage.S3 implements it.
type Uploader interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Options controls a migration run.
type Options struct {
	// Prefix is prepended to the image name to form the object key.
	Prefix string
	// Parallelism bounds concurrent uploads. Values below 1 use 4.
	Parallelism int
	// DryRun reads rows and images but writes nothing.
	DryRun bool
	// ObjectURL maps an object key to the URL stored with the row.
	ObjectURL func(key string) string
}

// Stats summarizes one run.
type Stats struct {
	Rows          int
	Uploaded      int
	MissingImages int
	UploadErrors  int
	Inserted      int
	InsertErrors  int
	DryRun        bool
	Duration      time.Duration
}

// Service runs the migration job.
type Service struct {
	loader   headline.RowLoader
	images   headline.ImageSource
	uploader Uploader
	repo     repository.HeadlineRepository
	opts     Options

	breaker     *circuitbreaker.CircuitBreaker
	uploadRetry retry.Config
	insertRetry retry.Config
}

// NewService creates a migration service. images reads the local image files.
func NewService(
	loader headline.RowLoader,
	images headline.ImageSource,
	uploader Uploader,
	repo repository.HeadlineRepository,
	opts Options,
) *Service {
	if opts.Parallelism < 1 {
		opts.Parallelism = defaultParallelism
	}
	if opts.ObjectURL == nil {
		opts.ObjectURL = func(key string) string { return key }
	}
	return &Service{
		loader:      loader,
		images:      images,
		uploader:    uploader,
		repo:        repo,
		opts:        opts,
		breaker:     circuitbreaker.New(circuitbreaker.StorageConfig()),
		uploadRetry: retry.StorageConfig(),
		insertRetry: retry.DBConfig(),
	}
}

type item struct {
	pos int
	row entity.RawRow
}

type uploadResult struct {
	url     string
	outcome string
}

// Run performs the migration. Only a failure to load rows or a canceled context
// aborts the pass; per-row failures are logged and counted.
func (s *Service) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{DryRun: s.opts.DryRun}

	rows, err := s.loader.LoadRows(ctx)
	if err != nil {
		return stats, fmt.Errorf("load rows: %w", err)
	}

	items := make([]item, 0, len(rows))
	for i, row := range rows {
		row.ImageName = strings.TrimSpace(row.ImageName)
		if row.ImageName == "" {
			continue
		}
		items = append(items, item{pos: i, row: row})
	}
	stats.Rows = len(items)

	slog.InfoContext(ctx, "migration started",
		slog.Int("rows", len(items)),
		slog.Int("dropped", len(rows)-len(items)),
		slog.Int("parallelism", s.opts.Parallelism),
		slog.Bool("dry_run", s.opts.DryRun))

	results := make([]uploadResult, len(items))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.Parallelism)
	for i, it := range items {
		eg.Go(func() error {
			res, err := s.upload(egCtx, it.row.ImageName)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		stats.Duration = time.Since(start)
		return stats, fmt.Errorf("upload images: %w", err)
	}

	for i, it := range items {
		switch results[i].outcome {
		case outcomeMissingImage:
			stats.MissingImages++
		case outcomeUploadError:
			stats.UploadErrors++
		default:
			stats.Uploaded++
		}

		if s.opts.DryRun {
			slog.InfoContext(ctx, "dry run: would insert row",
				slog.Int("row", it.pos+1),
				slog.String("image", it.row.ImageName),
				slog.String("image_url", results[i].url))
			continue
		}

		if err := s.insert(ctx, it.row, results[i].url); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				stats.Duration = time.Since(start)
				return stats, err
			}
			stats.InsertErrors++
			metrics.RecordMigrationOutcome(outcomeInsertError)
			slog.ErrorContext(ctx, "insert failed",
				slog.Int("row", it.pos+1),
				slog.String("image", it.row.ImageName),
				slog.Any("error", err))
			continue
		}
		stats.Inserted++
		metrics.RecordMigrationOutcome(outcomeInserted)
		slog.DebugContext(ctx, "row inserted",
			slog.Int("row", it.pos+1),
			slog.Int("of", len(rows)),
			slog.String("image", it.row.ImageName))
	}

	stats.Duration = time.Since(start)
	slog.InfoContext(ctx, "migration finished",
		slog.Int("rows", stats.Rows),
		slog.Int("uploaded", stats.Uploaded),
		slog.Int("missing_images", stats.MissingImages),
		slog.Int("upload_errors", stats.UploadErrors),
		slog.Int("inserted", stats.Inserted),
		slog.Int("insert_errors", stats.InsertErrors),
		slog.Duration("duration", stats.Duration),
		slog.Bool("dry_run", stats.DryRun))
	return stats, nil
}

// upload reads the local image and copies it to the bucket. It returns an error only
// when ctx is done; other failures are reported through the outcome.
func (s *Service) upload(ctx context.Context, name string) (uploadResult, error) {
	img, err := s.images.Fetch(ctx, name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return uploadResult{}, ctxErr
		}
		if errors.Is(err, entity.ErrNotFound) {
			metrics.RecordMigrationOutcome(outcomeMissingImage)
			slog.WarnContext(ctx, "local image missing, row keeps an empty image url",
				slog.String("image", name))
			return uploadResult{outcome: outcomeMissingImage}, nil
		}
		metrics.RecordMigrationOutcome(outcomeUploadError)
		slog.ErrorContext(ctx, "read local image failed",
			slog.String("image", name),
			slog.Any("error", err))
		return uploadResult{outcome: outcomeUploadError}, nil
	}

	key := s.opts.Prefix + name
	url := s.opts.ObjectURL(key)
	if s.opts.DryRun {
		slog.InfoContext(ctx, "dry run: would upload image",
			slog.String("key", key),
			slog.Int("bytes", len(img.Data)))
		return uploadResult{url: url}, nil
	}

	err = retry.WithBackoff(ctx, s.uploadRetry, func() error {
		_, err := circuitbreaker.Run(s.breaker, func() (struct{}, error) {
			return struct{}{}, s.uploader.Put(ctx, key, img.Data, entity.ImageMIMEType(name))
		})
		return err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return uploadResult{}, ctxErr
		}
		metrics.RecordMigrationOutcome(outcomeUploadError)
		slog.ErrorContext(ctx, "upload failed, row keeps an empty image url",
			slog.String("key", key),
			slog.Any("error", err))
		return uploadResult{outcome: outcomeUploadError}, nil
	}
	return uploadResult{url: url}, nil
}

func (s *Service) insert(ctx context.Context, row entity.RawRow, imageURL string) error {
	a := &repository.StoredArticle{
		Headline:    row.Headline,
		FullText:    row.FullText,
		ImageName:   row.ImageName,
		ImageURL:    imageURL,
		ArticleDate: entity.ExtractDate(row.ImageName),
	}
	return retry.WithBackoff(ctx, s.insertRetry, func() error {
		return s.repo.Insert(ctx, a)
	})
}
