package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headline-desk/internal/domain/entity"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVLoader_LoadRows(t *testing.T) {
	path := writeFile(t, "headlines.csv", "\ufeffheadline,full_text,image_name\n"+
		"ચૂંટણી પરિણામ,\"મત, ગણતરી\",a_01-01-2024.jpg\n"+
		"રમત સમાચાર,ક્રિકેટ,b_15-02-2024.jpg\n"+
		"ખાલી,,\n")

	loader := NewCSVLoader(path, nil, 0)
	rows, err := loader.LoadRows(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []entity.RawRow{
		{Headline: "ચૂંટણી પરિણામ", FullText: "મત, ગણતરી", ImageName: "a_01-01-2024.jpg"},
		{Headline: "રમત સમાચાર", FullText: "ક્રિકેટ", ImageName: "b_15-02-2024.jpg"},
		{Headline: "ખાલી"},
	}, rows)
	assert.Equal(t, "csv", loader.SourceName())
}

func TestCSVLoader_MissingImageColumn(t *testing.T) {
	path := writeFile(t, "bad.csv", "headline,full_text\nx,y\n")

	_, err := NewCSVLoader(path, nil, 0).LoadRows(context.Background())
	assert.ErrorIs(t, err, ErrMissingImageColumn)
}

func TestCSVLoader_MissingFile(t *testing.T) {
	_, err := NewCSVLoader(filepath.Join(t.TempDir(), "none.csv"), nil, 0).LoadRows(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVLoader_ZeroValueUsable(t *testing.T) {
	path := writeFile(t, "h.csv", "image_name\na.jpg\n")

	loader := &CSVLoader{Path: path}
	rows, err := loader.LoadRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.RawRow{{ImageName: "a.jpg"}}, rows)
}
