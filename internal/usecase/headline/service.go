package headline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/observability/metrics"
)

// Query describes one tag search with an optional date range.
// A nil bound defaults to the earliest or latest date among the tag matches.
type Query struct {
	Tag  string
	From *time.Time
	To   *time.Time
}

// Result is the outcome of a search.
type Result struct {
	// Articles are the matches after the date range, in store order.
	Articles []entity.Article
	// Total is the number of tag matches before the date range was applied.
	Total int
	// MinDate and MaxDate bound the dated tag matches; nil when none has a date.
	MinDate *time.Time
	MaxDate *time.Time
	// From and To are the range actually applied; nil when no range was requested.
	From *time.Time
	To   *time.Time
}

// Analysis is the vision model's assessment of one image.
type Analysis struct {
	ImageName string
	Provider  string
	Text      string
	Duration  time.Duration
}

// Service holds the session snapshot and serves searches over it.
// Reload swaps in a new snapshot atomically; a snapshot obtained earlier stays valid.
type Service struct {
	loader   RowLoader
	images   ImageSource
	analyzer ImageAnalyzer
	snapshot atomic.Pointer[Snapshot]
}

// NewService creates a headline service. images and analyzer may be nil, in which
// case Image and Analyze report ErrImagesDisabled and ErrAnalysisDisabled.
func NewService(loader RowLoader, images ImageSource, analyzer ImageAnalyzer) *Service {
	return &Service{
		loader:   loader,
		images:   images,
		analyzer: analyzer,
	}
}

// sourceNamer is implemented by loaders that label their origin for metrics.
type sourceNamer interface {
	SourceName() string
}

// Reload reads the dataset and replaces the current snapshot.
// On failure the previous snapshot, if any, remains in place.
func (s *Service) Reload(ctx context.Context) (Snapshot, error) {
	source := "dataset"
	if n, ok := s.loader.(sourceNamer); ok {
		source = n.SourceName()
	}

	start := time.Now()
	rows, err := s.loader.LoadRows(ctx)
	if err != nil {
		metrics.RecordDatasetLoad(source, 0, 0, time.Since(start), err)
		return Snapshot{}, fmt.Errorf("load rows: %w", err)
	}

	snap := Load(rows)
	s.snapshot.Store(&snap)
	duration := time.Since(start)
	metrics.RecordDatasetLoad(source, snap.Len(), snap.Undated(), duration, nil)

	slog.InfoContext(ctx, "dataset loaded",
		slog.String("source", source),
		slog.Int("rows", len(rows)),
		slog.Int("articles", snap.Len()),
		slog.Int("dropped", len(rows)-snap.Len()),
		slog.Int("undated", snap.Undated()),
		slog.Duration("duration", duration))

	return snap, nil
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot() (Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return Snapshot{}, ErrSnapshotNotLoaded
	}
	return *snap, nil
}

// Search filters the current snapshot by tag and then by date range.
// The tag is trimmed first; an empty tag returns ErrEmptyTag.
// If a range is requested and no tag match has a date, the result is empty.
func (s *Service) Search(ctx context.Context, q Query) (*Result, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	tag := strings.TrimSpace(q.Tag)
	if tag == "" {
		return nil, ErrEmptyTag
	}

	start := time.Now()
	matches, err := FilterByTag(snap.articles, tag)
	if err != nil {
		return nil, err
	}

	result := &Result{Articles: matches, Total: len(matches)}
	minDate, maxDate, hasDates := DateBounds(matches)
	if hasDates {
		result.MinDate, result.MaxDate = &minDate, &maxDate
	}

	if q.From != nil || q.To != nil {
		if q.From != nil && q.To != nil && day(*q.From).After(day(*q.To)) {
			return nil, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRange,
				q.From.Format(time.DateOnly), q.To.Format(time.DateOnly))
		}

		// A missing bound defaults to the data bound; without dated matches it stays nil.
		from, to := boundOr(q.From, minDate, hasDates), boundOr(q.To, maxDate, hasDates)
		result.From, result.To = from, to

		switch {
		case !hasDates:
			result.Articles = []entity.Article{}
		case from.After(*to):
			// A single bound lying outside the data selects nothing.
			result.Articles = []entity.Article{}
		default:
			ranged, err := FilterByDateRange(matches, *from, *to)
			if err != nil {
				return nil, err
			}
			result.Articles = ranged
		}
	}

	metrics.RecordSearch(len(result.Articles), time.Since(start))
	slog.DebugContext(ctx, "search completed",
		slog.String("tag", tag),
		slog.Int("matches", result.Total),
		slog.Int("results", len(result.Articles)))

	return result, nil
}

// boundOr returns the requested bound truncated to its day, or fallback when none
// was requested and ok is set. It returns nil when neither is available.
func boundOr(requested *time.Time, fallback time.Time, ok bool) *time.Time {
	switch {
	case requested != nil:
		d := day(*requested)
		return &d
	case ok:
		return &fallback
	}
	return nil
}

// Image resolves the scanned image of an article in the current snapshot.
// Names not present in the snapshot return an error wrapping entity.ErrNotFound.
func (s *Service) Image(ctx context.Context, imageName string) (*entity.Image, error) {
	if s.images == nil {
		return nil, ErrImagesDisabled
	}
	if err := entity.ValidateImageName(imageName); err != nil {
		return nil, err
	}

	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Get(imageName); !ok {
		return nil, fmt.Errorf("image %q: %w", imageName, entity.ErrNotFound)
	}

	img, err := s.images.Fetch(ctx, imageName)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	return img, nil
}

// Analyze fetches an article's image and asks the configured vision model to assess it.
func (s *Service) Analyze(ctx context.Context, imageName string) (*Analysis, error) {
	if s.analyzer == nil {
		return nil, ErrAnalysisDisabled
	}

	img, err := s.Image(ctx, imageName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := s.analyzer.Analyze(ctx, img)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	return &Analysis{
		ImageName: imageName,
		Provider:  s.analyzer.Name(),
		Text:      text,
		Duration:  duration,
	}, nil
}
