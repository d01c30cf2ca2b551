package analyzer

import (
	"context"

	"headline-desk/internal/domain/entity"
)

// NoOpNotice is returned by NoOp for every image.
const NoOpNotice = "Image analysis is not configured. Set ANALYZER_PROVIDER and an API key to enable it."

// NoOp is an analyzer that never calls a model. It is useful in development.
type NoOp struct{}

// NewNoOp creates a NoOp analyzer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Name implements headline.ImageAnalyzer.
func (n *NoOp) Name() string { return ProviderNone }

// Analyze returns NoOpNotice.
func (n *NoOp) Analyze(_ context.Context, img *entity.Image) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", ErrEmptyImage
	}
	return NoOpNotice, nil
}
