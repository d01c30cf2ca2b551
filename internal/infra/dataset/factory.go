package dataset

import (
	"errors"
	"fmt"
	"net/http"

	"headline-desk/internal/config"
	"headline-desk/internal/repository"
	"headline-desk/internal/usecase/headline"
)

// New returns the loader selected by cfg.Source. repo is only used by the
// postgres source and may be nil otherwise.
func New(cfg *config.DatasetConfig, repo repository.HeadlineRepository) (headline.RowLoader, error) {
	client := &http.Client{Timeout: cfg.FetchTimeout}

	switch cfg.Source {
	case config.SourceXLSX:
		return NewXLSXLoader(cfg.Path, cfg.Sheet, client, cfg.MaxBytes), nil
	case config.SourceCSV:
		return NewCSVLoader(cfg.Path, client, cfg.MaxBytes), nil
	case config.SourcePostgres:
		if repo == nil {
			return nil, errors.New("dataset: postgres source requires a database")
		}
		return &PostgresLoader{Repo: repo}, nil
	default:
		return nil, fmt.Errorf("dataset: unknown source %q", cfg.Source)
	}
}
