package dataset

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/xuri/excelize/v2"

	"headline-desk/internal/domain/entity"
)

// XLSXLoader reads headline rows from an Excel workbook.
type XLSXLoader struct {
	// Path is a local file or an http(s) URL.
	Path string
	// Sheet names the sheet to read; empty selects the first sheet.
	Sheet string

	fetch *fetcher
}

// NewXLSXLoader creates a workbook loader. client may be nil.
func NewXLSXLoader(path, sheet string, client *http.Client, maxBytes int64) *XLSXLoader {
	return &XLSXLoader{Path: path, Sheet: sheet, fetch: newFetcher(client, maxBytes)}
}

// SourceName labels the loader in metrics.
func (l *XLSXLoader) SourceName() string { return "xlsx" }

// LoadRows implements headline.RowLoader.
func (l *XLSXLoader) LoadRows(ctx context.Context) ([]entity.RawRow, error) {
	if l.fetch == nil {
		l.fetch = newFetcher(nil, 0)
	}
	data, err := l.fetch.read(ctx, l.Path)
	if err != nil {
		return nil, err
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	sheet := l.Sheet
	sheets := wb.GetSheetList()
	switch {
	case len(sheets) == 0:
		return nil, ErrNoHeader
	case sheet == "":
		sheet = sheets[0]
	case !slices.Contains(sheets, sheet):
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	records, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	rows, err := toRows(records)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return rows, nil
}
