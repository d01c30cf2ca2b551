// Package entity defines the core domain entities and validation logic for the application.
// It contains the headline Article record, the raw spreadsheet row it is built from,
// the date extraction rule for scanned image filenames, and domain-specific errors.
package entity

import "time"

// RawRow is one row of the headline dataset as read from a spreadsheet or table.
// Headline and FullText may be empty; ImageName is required for the row to be kept.
type RawRow struct {
	Headline  string
	FullText  string
	ImageName string
}

// Article represents one headline record of a loaded dataset.
// ArticleDate is derived from ImageName once at load time and is nil when the filename
// carries no valid DD-MM-YYYY token. Index is the row's position in the loaded input
// and serves as the stable tie-break key for ordering.
type Article struct {
	Index       int
	Headline    string
	FullText    string
	ImageName   string
	ArticleDate *time.Time
}

// HasDate reports whether an article date could be extracted from the image name.
func (a Article) HasDate() bool {
	return a.ArticleDate != nil
}

// DateString formats the article date as DD-MM-YYYY, or returns "" for undated articles.
func (a Article) DateString() string {
	if a.ArticleDate == nil {
		return ""
	}
	return a.ArticleDate.Format(DateLayout)
}
