package dataset

import "errors"

var (
	// ErrMissingImageColumn is returned when the header has no image_name column.
	ErrMissingImageColumn = errors.New("dataset: image_name column not found")
	// ErrNoHeader is returned when the source has no rows at all.
	ErrNoHeader = errors.New("dataset: header row missing")
	// ErrTooLarge is returned when a remote dataset exceeds the configured size.
	ErrTooLarge = errors.New("dataset: download exceeds size limit")
	// ErrSheetNotFound is returned when the requested workbook sheet does not exist.
	ErrSheetNotFound = errors.New("dataset: sheet not found")
)
