package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"headline-desk/internal/common/pagination"
	"headline-desk/internal/config"
	hhttp "headline-desk/internal/handler/http"
	hheadline "headline-desk/internal/handler/http/headline"
	"headline-desk/internal/handler/http/requestid"
	"headline-desk/internal/handler/http/respond"
	pgRepo "headline-desk/internal/infra/adapter/persistence/postgres"
	"headline-desk/internal/infra/analyzer"
	"headline-desk/internal/infra/dataset"
	"headline-desk/internal/infra/db"
	"headline-desk/internal/infra/images"
	"headline-desk/internal/infra/worker"
	"headline-desk/internal/observability/logging"
	"headline-desk/internal/repository"
	"headline-desk/internal/resilience/circuitbreaker"
	hlUC "headline-desk/internal/usecase/headline"
)

const (
	maxURILength = 2048
	maxBodyBytes = 1 << 20
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", slog.Any("error", err))
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", slog.String("error", respond.SanitizeError(err)))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverCfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}
	datasetCfg, err := config.LoadDatasetConfig()
	if err != nil {
		return err
	}
	imagesCfg, err := config.LoadImagesConfig()
	if err != nil {
		return err
	}
	analyzerCfg, err := analyzer.LoadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(ctx, datasetCfg)
	if err != nil {
		return err
	}
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	var repo repository.HeadlineRepository
	if database != nil {
		repo = pgRepo.NewHeadlineRepo(database)
	}
	loader, err := dataset.New(datasetCfg, repo)
	if err != nil {
		return err
	}
	imageSource, err := images.New(ctx, imagesCfg)
	if err != nil {
		return err
	}
	imageAnalyzer, err := analyzer.New(analyzerCfg, nil)
	if err != nil {
		return err
	}
	logger.Info("components configured",
		slog.String("dataset_source", datasetCfg.Source),
		slog.String("image_source", imagesCfg.Source),
		slog.String("analyzer", imageAnalyzer.Name()))

	var analyzerOpt hlUC.ImageAnalyzer
	if analyzerCfg.Provider != analyzer.ProviderNone {
		analyzerOpt = imageAnalyzer
	}
	svc := hlUC.NewService(loader, imageSource, analyzerOpt)

	// The server starts even when the first load fails; /ready reports it until a
	// reload succeeds.
	if _, err := svc.Reload(ctx); err != nil {
		logger.Error("initial dataset load failed", slog.String("error", respond.SanitizeError(err)))
	}

	if datasetCfg.ReloadSchedule != "" {
		sched, err := worker.NewScheduler(datasetCfg.ReloadSchedule, datasetCfg.ReloadTimezone,
			worker.NewReloadJob(svc, datasetCfg.ReloadTimeout, logger), logger)
		if err != nil {
			return err
		}
		sched.Start()
		logger.Info("scheduled reload enabled",
			slog.String("schedule", datasetCfg.ReloadSchedule),
			slog.String("timezone", datasetCfg.ReloadTimezone),
			slog.Time("next", sched.Next()))
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
			defer cancel()
			if err := sched.Stop(stopCtx); err != nil {
				logger.Warn("reload job still running at shutdown", slog.Any("error", err))
			}
		}()
	}

	handler := newHandler(logger, serverCfg, svc, database, imageSource, imageAnalyzer)
	return serve(ctx, logger, serverCfg, handler)
}

// openDatabase connects only when the dataset is read from Postgres.
func openDatabase(ctx context.Context, cfg *config.DatasetConfig) (*sql.DB, error) {
	if cfg.Source != config.SourcePostgres {
		return nil, nil
	}
	database, err := db.Open(ctx, "")
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}

type breakerOwner interface {
	Breaker() *circuitbreaker.CircuitBreaker
}

type urlBuilder interface {
	URL(imageName string) string
}

func newHandler(
	logger *slog.Logger,
	cfg *config.ServerConfig,
	svc *hlUC.Service,
	database *sql.DB,
	imageSource hlUC.ImageSource,
	imageAnalyzer hlUC.ImageAnalyzer,
) http.Handler {
	var breakers []*circuitbreaker.CircuitBreaker
	for _, c := range []any{imageSource, imageAnalyzer} {
		if b, ok := c.(breakerOwner); ok {
			breakers = append(breakers, b.Breaker())
		}
	}

	// Remote images are linked directly; other sources are served by this process.
	var imageURL hheadline.ImageURLFunc
	if u, ok := imageSource.(urlBuilder); ok {
		imageURL = u.URL
	}

	analyzeLimiter := hhttp.NewRateLimiter(cfg.AnalyzeRate, cfg.AnalyzeBurst)

	mux := http.NewServeMux()
	hheadline.Register(mux, svc, hheadline.Options{
		ImageURL:     imageURL,
		AnalyzeLimit: analyzeLimiter.Limit,
		AdminToken:   cfg.AdminToken,
		Paging:       pagination.LoadFromEnv(),
	})
	mux.Handle("GET /health", &hhttp.HealthHandler{
		Dataset:  svc,
		DB:       database,
		Breakers: breakers,
		Version:  cfg.Version,
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Dataset: svc, DB: database})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	if cfg.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN is not set, /admin/reload is unauthenticated")
	}

	// Metrics wraps the mux directly so it can read the matched pattern.
	return hhttp.Chain(hhttp.Metrics(mux),
		requestid.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.SecurityHeaders,
		hhttp.LimitRequest(maxURILength, maxBodyBytes),
		hhttp.RequestTimeout(cfg.RequestTimeout),
	)
}

// serve runs the HTTP server until ctx is canceled, then shuts it down gracefully.
func serve(ctx context.Context, logger *slog.Logger, cfg *config.ServerConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
