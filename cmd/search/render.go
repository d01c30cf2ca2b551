package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"headline-desk/internal/domain/entity"
	hlUC "headline-desk/internal/usecase/headline"
)

const (
	msgEnterTag  = "કૃપા કરીને ટેગ દાખલ કરો."
	msgNoResults = "કોઈ પરિણામ મળ્યું નથી."
	msgFound     = "મળેલા પરિણામો: %d"

	// maxHeadlineWidth is in terminal cells, not runes.
	maxHeadlineWidth = 60
	undatedCell      = "-"
)

// writeText prints the result count and an aligned table of date, headline and image.
// Column widths are display widths so Gujarati combining marks do not skew alignment.
func writeText(w io.Writer, res *hlUC.Result) error {
	if len(res.Articles) == 0 {
		_, err := fmt.Fprintln(w, msgNoResults)
		return err
	}

	rows := [][]string{{"#", "date", "headline", "image"}}
	for i, a := range res.Articles {
		date := a.DateString()
		if date == "" {
			date = undatedCell
		}
		headline := strings.Join(strings.Fields(a.Headline), " ")
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			date,
			runewidth.Truncate(headline, maxHeadlineWidth, "..."),
			a.ImageName,
		})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, msgFound+"\n", len(res.Articles))
	if res.MinDate != nil && res.MaxDate != nil {
		fmt.Fprintf(&sb, "%s .. %s\n", res.MinDate.Format(entity.DateLayout), res.MaxDate.Format(entity.DateLayout))
	}
	sb.WriteString("\n")
	for _, line := range alignColumns(rows) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// alignColumns pads every cell but the last to its column's widest display width.
func alignColumns(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var sb strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return lines
}
