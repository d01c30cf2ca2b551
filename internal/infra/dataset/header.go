package dataset

import (
	"strings"

	"headline-desk/internal/domain/entity"
)

const (
	colHeadline  = "headline"
	colFullText  = "full_text"
	colImageName = "image_name"
)

// columns holds the position of each known column, -1 when absent.
type columns struct {
	headline, fullText, imageName int
}

func locateColumns(header []string) (columns, error) {
	cols := columns{headline: -1, fullText: -1, imageName: -1}
	for i, name := range header {
		// first occurrence wins for duplicated header names
		switch normalizeHeader(name) {
		case colHeadline:
			if cols.headline < 0 {
				cols.headline = i
			}
		case colFullText:
			if cols.fullText < 0 {
				cols.fullText = i
			}
		case colImageName:
			if cols.imageName < 0 {
				cols.imageName = i
			}
		}
	}
	if cols.imageName < 0 {
		return cols, ErrMissingImageColumn
	}
	return cols, nil
}

func normalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.TrimSpace(name))
}

// toRows converts header-led records into raw rows. Records shorter than the
// header yield empty fields for the missing cells.
func toRows(records [][]string) ([]entity.RawRow, error) {
	if len(records) == 0 {
		return nil, ErrNoHeader
	}
	cols, err := locateColumns(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]entity.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, entity.RawRow{
			Headline:  cell(rec, cols.headline),
			FullText:  cell(rec, cols.fullText),
			ImageName: cell(rec, cols.imageName),
		})
	}
	return rows, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
