// Package headline implements the headline search core: loading rows into an ordered
// immutable snapshot, filtering by tag and by date range, and the session service that
// ties the snapshot to image retrieval and image analysis.
package headline

import "errors"

// Sentinel errors for headline use case operations.
var (
	// ErrEmptyTag indicates that a search was attempted with an empty or
	// whitespace-only tag. Callers must treat this as "no query".
	ErrEmptyTag = errors.New("tag is required")

	// ErrInvalidRange indicates that the start of a date range is after its end.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrSnapshotNotLoaded indicates that the service has no dataset loaded yet.
	ErrSnapshotNotLoaded = errors.New("dataset not loaded")

	// ErrAnalysisDisabled indicates that no image analyzer is configured.
	ErrAnalysisDisabled = errors.New("image analysis is disabled")

	// ErrImagesDisabled indicates that no image source is configured.
	ErrImagesDisabled = errors.New("image source is not configured")
)
