package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headline-desk/internal/domain/entity"
)

func TestLocateColumns(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		want    columns
		wantErr error
	}{
		{
			name:   "canonical order",
			header: []string{"headline", "full_text", "image_name"},
			want:   columns{headline: 0, fullText: 1, imageName: 2},
		},
		{
			name:   "reordered with extra columns and odd case",
			header: []string{"id", " Image_Name ", "HEADLINE", "source"},
			want:   columns{headline: 2, fullText: -1, imageName: 1},
		},
		{
			name:   "byte order mark on first cell",
			header: []string{"\ufeffheadline", "image_name"},
			want:   columns{headline: 0, fullText: -1, imageName: 1},
		},
		{
			name:   "duplicate header keeps first",
			header: []string{"image_name", "image_name"},
			want:   columns{headline: -1, fullText: -1, imageName: 0},
		},
		{
			name:    "missing image column",
			header:  []string{"headline", "full_text"},
			wantErr: ErrMissingImageColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locateColumns(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToRows(t *testing.T) {
	records := [][]string{
		{"headline", "full_text", "image_name"},
		{"ચૂંટણી પરિણામ", "મતગણતરી", "a_01-01-2024.jpg"},
		{"ટૂંકી પંક્તિ"},
		{"", "", "c_no_date.jpg", "extra"},
	}

	got, err := toRows(records)
	require.NoError(t, err)

	assert.Equal(t, []entity.RawRow{
		{Headline: "ચૂંટણી પરિણામ", FullText: "મતગણતરી", ImageName: "a_01-01-2024.jpg"},
		{Headline: "ટૂંકી પંક્તિ"},
		{ImageName: "c_no_date.jpg"},
	}, got)
}

func TestToRows_Empty(t *testing.T) {
	_, err := toRows(nil)
	assert.ErrorIs(t, err, ErrNoHeader)

	rows, err := toRows([][]string{{"image_name"}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
