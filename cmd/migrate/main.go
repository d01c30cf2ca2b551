// Command headline-migrate copies the headline spreadsheet into the headlines table
// and uploads the scanned images to the configured bucket.
// Usage: headline-migrate [--dry-run]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"headline-desk/internal/config"
	"headline-desk/internal/handler/http/respond"
	pgRepo "headline-desk/internal/infra/adapter/persistence/postgres"
	"headline-desk/internal/infra/dataset"
	"headline-desk/internal/infra/db"
	"headline-desk/internal/infra/images"
	"headline-desk/internal/infra/storage"
	"headline-desk/internal/observability/logging"
	"headline-desk/internal/repository"
	"headline-desk/internal/usecase/migration"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	dryRun := flag.Bool("dry-run", false, "read rows and images and log what would be written")
	flag.Parse()

	logger := logging.NewCLILogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := run(ctx, *dryRun)
	if err != nil {
		logger.Error("migration failed", slog.String("error", respond.SanitizeError(err)))
		os.Exit(1)
	}

	fmt.Printf("rows=%d uploaded=%d missing_images=%d upload_errors=%d inserted=%d insert_errors=%d dry_run=%t duration=%s\n",
		stats.Rows, stats.Uploaded, stats.MissingImages, stats.UploadErrors,
		stats.Inserted, stats.InsertErrors, stats.DryRun, stats.Duration)
	if stats.UploadErrors > 0 || stats.InsertErrors > 0 {
		os.Exit(3)
	}
}

func run(ctx context.Context, dryRun bool) (migration.Stats, error) {
	datasetCfg, err := config.LoadDatasetConfig()
	if err != nil {
		return migration.Stats{}, err
	}
	if datasetCfg.Source == config.SourcePostgres {
		return migration.Stats{}, errors.New("DATASET_SOURCE must be a spreadsheet (xlsx or csv) for migration")
	}
	migrateCfg, err := config.LoadMigrationConfig()
	if err != nil {
		return migration.Stats{}, err
	}
	imagesCfg, err := config.LoadImagesConfig()
	if err != nil {
		return migration.Stats{}, err
	}
	storageCfg, err := config.LoadStorageConfig()
	if err != nil {
		return migration.Stats{}, err
	}

	loader, err := dataset.New(datasetCfg, nil)
	if err != nil {
		return migration.Stats{}, err
	}
	localImages := images.NewFileSource(migrateCfg.ImagesDir, imagesCfg.MaxBytes)

	// A dry run touches neither the bucket nor the database.
	var (
		uploader migration.Uploader
		repo     repository.HeadlineRepository
	)
	if !dryRun {
		store, err := storage.NewS3(ctx, storageCfg)
		if err != nil {
			return migration.Stats{}, fmt.Errorf("create s3 client: %w", err)
		}
		uploader = store

		database, err := db.Open(ctx, "")
		if err != nil {
			return migration.Stats{}, err
		}
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("failed to close database", slog.Any("error", err))
			}
		}()
		if err := db.MigrateUp(ctx, database); err != nil {
			return migration.Stats{}, err
		}
		repo = pgRepo.NewHeadlineRepo(database)
	}

	svc := migration.NewService(loader, localImages, uploader, repo, migration.Options{
		Prefix:      storageCfg.Prefix,
		Parallelism: migrateCfg.Parallelism,
		DryRun:      dryRun,
		ObjectURL:   storageCfg.ObjectURL,
	})
	return svc.Run(ctx)
}
