package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"

	"headline-desk/internal/domain/entity"
)

// CSVLoader reads headline rows from a comma-separated export of the workbook.
type CSVLoader struct {
	// Path is a local file or an http(s) URL.
	Path string

	fetch *fetcher
}

// NewCSVLoader creates a CSV loader. client may be nil.
func NewCSVLoader(path string, client *http.Client, maxBytes int64) *CSVLoader {
	return &CSVLoader{Path: path, fetch: newFetcher(client, maxBytes)}
}

// SourceName labels the loader in metrics.
func (l *CSVLoader) SourceName() string { return "csv" }

// LoadRows implements headline.RowLoader.
func (l *CSVLoader) LoadRows(ctx context.Context) ([]entity.RawRow, error) {
	if l.fetch == nil {
		l.fetch = newFetcher(nil, 0)
	}
	data, err := l.fetch.read(ctx, l.Path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return toRows(records)
}
