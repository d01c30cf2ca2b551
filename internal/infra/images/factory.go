package images

import (
	"context"
	"fmt"
	"net/http"

	"headline-desk/internal/config"
	"headline-desk/internal/infra/storage"
	"headline-desk/internal/usecase/headline"
)

// New builds the image source selected by cfg. It returns nil for the none source,
// which disables image endpoints.
func New(ctx context.Context, cfg *config.ImagesConfig) (headline.ImageSource, error) {
	switch cfg.Source {
	case config.ImagesHTTP:
		client := &http.Client{Timeout: cfg.FetchTimeout}
		return NewHTTPSource(cfg.BaseURL, client, cfg.MaxBytes), nil
	case config.ImagesFile:
		return NewFileSource(cfg.Dir, cfg.MaxBytes), nil
	case config.ImagesS3:
		storageCfg, err := config.LoadStorageConfig()
		if err != nil {
			return nil, err
		}
		store, err := storage.NewS3(ctx, storageCfg)
		if err != nil {
			return nil, fmt.Errorf("create s3 client: %w", err)
		}
		return NewS3Source(store, storageCfg.Prefix, cfg.MaxBytes), nil
	case config.ImagesNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown image source %q", cfg.Source)
	}
}
