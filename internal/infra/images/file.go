package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/observability/metrics"
)

// FileSource reads images from a local folder.
type FileSource struct {
	dir      string
	maxBytes int64
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string, maxBytes int64) *FileSource {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &FileSource{dir: dir, maxBytes: maxBytes}
}

// Fetch reads the named image from the folder.
func (s *FileSource) Fetch(ctx context.Context, imageName string) (*entity.Image, error) {
	if err := entity.ValidateImageName(imageName); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := s.read(imageName)
	metrics.RecordImageFetch("file", fetchResult(err), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", imageName, err)
	}
	return newImage(imageName, data), nil
}

func (s *FileSource) read(imageName string) ([]byte, error) {
	path := filepath.Join(s.dir, imageName)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrImageNotFound
	}
	if info.Size() > s.maxBytes {
		return nil, ErrImageTooLarge
	}
	// #nosec G304 -- the name is validated to contain no path elements
	return os.ReadFile(path)
}
