package headline

import (
	"fmt"
	"strings"
	"time"

	"headline-desk/internal/domain/entity"
)

// FilterByTag returns the records whose headline or full text contains tag,
// compared case-insensitively. A record matching in both fields appears once.
// The result is in store order regardless of the order of records.
// An empty or whitespace-only tag returns ErrEmptyTag.
func FilterByTag(records []entity.Article, tag string) ([]entity.Article, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, ErrEmptyTag
	}
	needle := strings.ToLower(tag)

	retained := make(map[int]struct{})
	for i, r := range records {
		if containsFold(r.Headline, needle) || containsFold(r.FullText, needle) {
			retained[i] = struct{}{}
		}
	}

	out := make([]entity.Article, 0, len(retained))
	for i, r := range records {
		if _, ok := retained[i]; ok {
			out = append(out, r)
		}
	}
	sortArticles(out)
	return out, nil
}

func containsFold(field, lowerNeedle string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), lowerNeedle)
}

// FilterByDateRange returns the records dated within [start, end], both inclusive,
// compared by calendar day. Undated records are always excluded.
// If start is after end it returns ErrInvalidRange. The order of records is preserved.
func FilterByDateRange(records []entity.Article, start, end time.Time) ([]entity.Article, error) {
	start, end = day(start), day(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	out := make([]entity.Article, 0, len(records))
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		d := day(*r.ArticleDate)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// DateBounds returns the earliest and latest article dates among records.
// ok is false when no record has a date.
func DateBounds(records []entity.Article) (min, max time.Time, ok bool) {
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		d := day(*r.ArticleDate)
		if !ok {
			min, max, ok = d, d, true
			continue
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max, ok
}

// day truncates t to its calendar date in UTC, keeping the wall-clock date of t.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
