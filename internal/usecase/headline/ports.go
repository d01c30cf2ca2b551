package headline

import (
	"context"

	"headline-desk/internal/domain/entity"
)

// RowLoader reads the raw headline rows of a dataset.
type RowLoader interface {
	LoadRows(ctx context.Context) ([]entity.RawRow, error)
}

// ImageSource resolves a scanned image by name.
type ImageSource interface {
	Fetch(ctx context.Context, imageName string) (*entity.Image, error)
}

// ImageAnalyzer sends an image to a vision model and returns its commentary.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, img *entity.Image) (string, error)
	Name() string
}
