// Command headline-analyze asks the configured vision model whether a scanned
// headline image looks authentic.
// Usage: headline-analyze <image_name> [--output text|json]
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"headline-desk/internal/config"
	"headline-desk/internal/handler/http/respond"
	pgRepo "headline-desk/internal/infra/adapter/persistence/postgres"
	"headline-desk/internal/infra/analyzer"
	"headline-desk/internal/infra/dataset"
	"headline-desk/internal/infra/db"
	"headline-desk/internal/infra/images"
	"headline-desk/internal/observability/logging"
	"headline-desk/internal/repository"
	hlUC "headline-desk/internal/usecase/headline"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	output := flag.String("output", "text", "output format: text or json")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: headline-analyze <image_name> [--output text|json]")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	imageName := flag.Arg(0)

	logger := logging.NewCLILogger()
	slog.SetDefault(logger)

	a, err := analyze(imageName)
	if err != nil {
		logger.Error("analysis failed",
			slog.String("image_name", imageName),
			slog.String("error", respond.SanitizeError(err)))
		fmt.Fprintf(os.Stderr, "Error: %v\n", respond.SanitizeError(err))
		os.Exit(1)
	}

	if err := write(os.Stdout, *output, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func analyze(imageName string) (*hlUC.Analysis, error) {
	analyzerCfg, err := analyzer.LoadConfig()
	if err != nil {
		return nil, err
	}
	datasetCfg, err := config.LoadDatasetConfig()
	if err != nil {
		return nil, err
	}
	imagesCfg, err := config.LoadImagesConfig()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute+analyzerCfg.Timeout)
	defer cancel()

	var repo repository.HeadlineRepository
	if datasetCfg.Source == config.SourcePostgres {
		var database *sql.DB
		if database, err = db.Open(ctx, ""); err != nil {
			return nil, err
		}
		defer func() { _ = database.Close() }()
		repo = pgRepo.NewHeadlineRepo(database)
	}

	loader, err := dataset.New(datasetCfg, repo)
	if err != nil {
		return nil, err
	}
	source, err := images.New(ctx, imagesCfg)
	if err != nil {
		return nil, err
	}
	vision, err := analyzer.New(analyzerCfg, nil)
	if err != nil {
		return nil, err
	}

	svc := hlUC.NewService(loader, source, vision)
	if _, err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc.Analyze(ctx, imageName)
}

type analysisOutput struct {
	ImageName  string `json:"image_name"`
	Provider   string `json:"provider"`
	Analysis   string `json:"analysis"`
	DurationMS int64  `json:"duration_ms"`
}

func write(w io.Writer, format string, a *hlUC.Analysis) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(analysisOutput{
			ImageName:  a.ImageName,
			Provider:   a.Provider,
			Analysis:   a.Text,
			DurationMS: a.Duration.Milliseconds(),
		})
	case "text":
		_, err := fmt.Fprintf(w, "%s (%s, %s)\n\n%s\n", a.ImageName, a.Provider, a.Duration.Round(time.Millisecond), a.Text)
		return err
	default:
		return fmt.Errorf("invalid output %q: must be text or json", format)
	}
}
