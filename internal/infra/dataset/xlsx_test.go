package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"headline-desk/internal/domain/entity"
)

func sampleWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	rows := [][]interface{}{
		{"headline", "full_text", "image_name"},
		{"ચૂંટણી પરિણામ", "રાજ્યમાં મતગણતરી", "a_01-01-2024.jpg"},
		{"રમત સમાચાર", "", "b_15-02-2024.jpg"},
		{"ચૂંટણી સમાચાર", "સભા", "c_no_date.jpg"},
		{"ચિત્ર વિના", "ખાલી"},
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &row))
	}

	_, err := f.NewSheet("Archive")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Archive", "A1", &[]interface{}{"image_name", "headline"}))
	require.NoError(t, f.SetSheetRow("Archive", "A2", &[]interface{}{"old_01-01-2001.jpg", "જૂનું"}))
	return f
}

var wantSheet1 = []entity.RawRow{
	{Headline: "ચૂંટણી પરિણામ", FullText: "રાજ્યમાં મતગણતરી", ImageName: "a_01-01-2024.jpg"},
	{Headline: "રમત સમાચાર", ImageName: "b_15-02-2024.jpg"},
	{Headline: "ચૂંટણી સમાચાર", FullText: "સભા", ImageName: "c_no_date.jpg"},
	{Headline: "ચિત્ર વિના", FullText: "ખાલી"},
}

func TestXLSXLoader_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged_output.xlsx")
	require.NoError(t, sampleWorkbook(t).SaveAs(path))

	loader := NewXLSXLoader(path, "", nil, 0)
	rows, err := loader.LoadRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, wantSheet1, rows)
	assert.Equal(t, "xlsx", loader.SourceName())
}

func TestXLSXLoader_NamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged_output.xlsx")
	require.NoError(t, sampleWorkbook(t).SaveAs(path))

	rows, err := NewXLSXLoader(path, "Archive", nil, 0).LoadRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.RawRow{{Headline: "જૂનું", ImageName: "old_01-01-2001.jpg"}}, rows)

	_, err = NewXLSXLoader(path, "Missing", nil, 0).LoadRows(context.Background())
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestXLSXLoader_RemoteURL(t *testing.T) {
	buf, err := sampleWorkbook(t).WriteToBuffer()
	require.NoError(t, err)
	body := buf.Bytes()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/main/merged_output.xlsx", r.URL.Path)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	rows, err := NewXLSXLoader(srv.URL+"/main/merged_output.xlsx", "", srv.Client(), 0).LoadRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, wantSheet1, rows)
}

func TestXLSXLoader_NotAWorkbook(t *testing.T) {
	path := writeFile(t, "fake.xlsx", "headline,image_name\n")

	_, err := NewXLSXLoader(path, "", nil, 0).LoadRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open workbook")
}
