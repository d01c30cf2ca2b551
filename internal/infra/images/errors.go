// Package images resolves scanned headline images by file name from a web host,
// a local folder or an object store bucket.
package images

import (
	"errors"
	"fmt"

	"headline-desk/internal/domain/entity"
)

// ErrImageNotFound is returned when the source has no image under the requested name.
// It matches entity.ErrNotFound with errors.Is.
var ErrImageNotFound = fmt.Errorf("image %w", entity.ErrNotFound)

// ErrImageTooLarge is returned when an image exceeds the configured size limit.
var ErrImageTooLarge = errors.New("image exceeds size limit")

const defaultMaxBytes int64 = 10 << 20

// Metric result labels.
const (
	resultSuccess  = "success"
	resultNotFound = "not_found"
	resultFailure  = "failure"
)

func fetchResult(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, ErrImageNotFound):
		return resultNotFound
	default:
		return resultFailure
	}
}

func newImage(name string, data []byte) *entity.Image {
	return &entity.Image{
		Name:        name,
		ContentType: entity.ImageMIMEType(name),
		Data:        data,
	}
}
