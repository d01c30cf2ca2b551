package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name      string
		imageName string
		want      *time.Time
	}{
		{
			name:      "date in middle of name",
			imageName: "headline_15-08-1947.jpg",
			want:      ptrDate(1947, time.August, 15),
		},
		{
			name:      "date at start",
			imageName: "01-01-2024_front.png",
			want:      ptrDate(2024, time.January, 1),
		},
		{
			name:      "first token wins",
			imageName: "a_01-03-2024_b_02-04-2025.jpg",
			want:      ptrDate(2024, time.March, 1),
		},
		{
			name:      "leap day",
			imageName: "x_29-02-2024.jpg",
			want:      ptrDate(2024, time.February, 29),
		},
		{name: "invalid calendar date", imageName: "image_99-99-9999.jpg", want: nil},
		{name: "month 13", imageName: "image_01-13-2024.jpg", want: nil},
		{name: "february 30", imageName: "image_30-02-2024.jpg", want: nil},
		{name: "no date", imageName: "no_date_here.png", want: nil},
		{name: "short year", imageName: "a_01-01-24.jpg", want: nil},
		{name: "empty", imageName: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDate(tt.imageName)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestExtractDate_RoundTripAllDaysOfYear(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d := start; d.Year() == 2023; d = d.AddDate(0, 0, 1) {
		name := fmt.Sprintf("scan_%s.jpg", d.Format(DateLayout))
		got := ExtractDate(name)
		require.NotNil(t, got, name)
		assert.True(t, d.Equal(*got), name)
	}
}

func TestExtractDate_Deterministic(t *testing.T) {
	first := ExtractDate("c_10-10-2010.jpg")
	second := ExtractDate("c_10-10-2010.jpg")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.NotSame(t, first, second)
}

func TestImageMIMEType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ImageMIMEType("a.jpg"))
	assert.Equal(t, "image/jpeg", ImageMIMEType("a.JPEG"))
	assert.Equal(t, "image/png", ImageMIMEType("a.png"))
	assert.Equal(t, "image/png", ImageMIMEType("a.webp"))
}

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
