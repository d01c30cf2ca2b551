package entity

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the day-month-year layout embedded in scanned image filenames.
const DateLayout = "02-01-2006"

var dateTokenPattern = regexp.MustCompile(`\d{2}-\d{2}-\d{4}`)

// ExtractDate returns the calendar date embedded in an image filename.
// Only the first DD-MM-YYYY token is considered. It returns nil when the filename has no
// token or when the token is not a valid calendar date (e.g. "99-99-9999" or "31-02-2024").
// The returned date is midnight UTC.
func ExtractDate(imageName string) *time.Time {
	token := dateTokenPattern.FindString(imageName)
	if token == "" {
		return nil
	}
	d, err := time.ParseInLocation(DateLayout, token, time.UTC)
	if err != nil {
		return nil
	}
	return &d
}

// ImageMIMEType returns the content type used when an image is uploaded or sent for analysis.
// Names ending in .jpg or .jpeg are JPEG, anything else is treated as PNG.
func ImageMIMEType(imageName string) string {
	lower := strings.ToLower(imageName)
	if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
		return "image/jpeg"
	}
	return "image/png"
}
