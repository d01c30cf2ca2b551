package migration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/repository"
	"headline-desk/internal/resilience/retry"
)

/* ───────── stubs ───────── */

type stubLoader struct {
	rows []entity.RawRow
	err  error
}

func (l *stubLoader) LoadRows(context.Context) ([]entity.RawRow, error) {
	return l.rows, l.err
}

type stubImages struct {
	files map[string][]byte
	fail  map[string]error
}

func (s *stubImages) Fetch(ctx context.Context, name string) (*entity.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := s.fail[name]; ok {
		return nil, err
	}
	data, ok := s.files[name]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &entity.Image{Name: name, ContentType: entity.ImageMIMEType(name), Data: data}, nil
}

type putCall struct {
	Key         string
	ContentType string
}

type stubUploader struct {
	mu    sync.Mutex
	puts  []putCall
	fail  map[string]bool
	inUse int
	peak  int
}

func (u *stubUploader) Put(_ context.Context, key string, _ []byte, contentType string) error {
	u.mu.Lock()
	u.inUse++
	u.peak = max(u.peak, u.inUse)
	u.mu.Unlock()

	time.Sleep(2 * time.Millisecond)

	u.mu.Lock()
	defer u.mu.Unlock()
	u.inUse--
	if u.fail[key] {
		return errors.New("bucket unavailable")
	}
	u.puts = append(u.puts, putCall{Key: key, ContentType: contentType})
	return nil
}

type stubRepo struct {
	inserted []repository.StoredArticle
	fail     map[string]bool
}

func (r *stubRepo) Insert(_ context.Context, a *repository.StoredArticle) error {
	if r.fail[a.ImageName] {
		return errors.New("constraint violation")
	}
	a.ID = int64(len(r.inserted) + 1)
	r.inserted = append(r.inserted, *a)
	return nil
}

func (r *stubRepo) ListRows(context.Context) ([]entity.RawRow, error) { return nil, nil }
func (r *stubRepo) Count(context.Context) (int64, error)              { return int64(len(r.inserted)), nil }

func newTestService(loader *stubLoader, images *stubImages, up *stubUploader, repo *stubRepo, opts Options) *Service {
	s := NewService(loader, images, up, repo, opts)
	fast := retry.Config{MaxAttempts: 1}
	s.uploadRetry = fast
	s.insertRetry = fast
	return s
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleRows() []entity.RawRow {
	return []entity.RawRow{
		{Headline: "ચૂંટણી પરિણામ", FullText: "a", ImageName: "a_01-03-2024.png"},
		{Headline: "no image", FullText: "dropped", ImageName: "  "},
		{Headline: "વરસાદ", FullText: "b", ImageName: "b_15-01-2024.jpg"},
		{Headline: "undated", FullText: "c", ImageName: "c.png"},
	}
}

/* ───────── Run ───────── */

func TestRun_UploadsAndInsertsInOrder(t *testing.T) {
	images := &stubImages{files: map[string][]byte{
		"a_01-03-2024.png": []byte("a"),
		"b_15-01-2024.jpg": []byte("b"),
		"c.png":            []byte("c"),
	}}
	up := &stubUploader{}
	repo := &stubRepo{}
	s := newTestService(&stubLoader{rows: sampleRows()}, images, up, repo, Options{
		Prefix:    "images/",
		ObjectURL: func(key string) string { return "https://cdn.example.com/" + key },
	})

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []repository.StoredArticle{
		{ID: 1, Headline: "ચૂંટણી પરિણામ", FullText: "a", ImageName: "a_01-03-2024.png",
			ImageURL: "https://cdn.example.com/images/a_01-03-2024.png", ArticleDate: day(2024, 3, 1)},
		{ID: 2, Headline: "વરસાદ", FullText: "b", ImageName: "b_15-01-2024.jpg",
			ImageURL: "https://cdn.example.com/images/b_15-01-2024.jpg", ArticleDate: day(2024, 1, 15)},
		{ID: 3, Headline: "undated", FullText: "c", ImageName: "c.png",
			ImageURL: "https://cdn.example.com/images/c.png"},
	}
	if diff := cmp.Diff(want, repo.inserted); diff != "" {
		t.Fatalf("inserted mismatch (-want +got):\n%s", diff)
	}

	wantPuts := []putCall{
		{Key: "images/a_01-03-2024.png", ContentType: "image/png"},
		{Key: "images/b_15-01-2024.jpg", ContentType: "image/jpeg"},
		{Key: "images/c.png", ContentType: "image/png"},
	}
	sortPuts := cmpopts.SortSlices(func(a, b putCall) bool { return a.Key < b.Key })
	if diff := cmp.Diff(wantPuts, up.puts, sortPuts); diff != "" {
		t.Fatalf("puts mismatch (-want +got):\n%s", diff)
	}

	wantStats := Stats{Rows: 3, Uploaded: 3, Inserted: 3}
	if diff := cmp.Diff(wantStats, stats, cmpopts.IgnoreFields(Stats{}, "Duration")); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_FailuresAreCountedAndPassContinues(t *testing.T) {
	images := &stubImages{
		files: map[string][]byte{
			"b_15-01-2024.jpg": []byte("b"),
			"c.png":            []byte("c"),
		},
		fail: map[string]error{},
	}
	up := &stubUploader{fail: map[string]bool{"b_15-01-2024.jpg": true}}
	repo := &stubRepo{fail: map[string]bool{"c.png": true}}
	s := newTestService(&stubLoader{rows: sampleRows()}, images, up, repo, Options{})

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantStats := Stats{Rows: 3, Uploaded: 1, MissingImages: 1, UploadErrors: 1, Inserted: 2, InsertErrors: 1}
	if diff := cmp.Diff(wantStats, stats, cmpopts.IgnoreFields(Stats{}, "Duration")); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}

	// missing and failed uploads are still inserted, with an empty URL
	got := map[string]string{}
	for _, a := range repo.inserted {
		got[a.ImageName] = a.ImageURL
	}
	want := map[string]string{"a_01-03-2024.png": "", "b_15-01-2024.jpg": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("image urls mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_UnreadableImageIsUploadError(t *testing.T) {
	rows := []entity.RawRow{{Headline: "x", ImageName: "x.png"}}
	images := &stubImages{fail: map[string]error{"x.png": errors.New("permission denied")}}
	repo := &stubRepo{}
	s := newTestService(&stubLoader{rows: rows}, images, &stubUploader{}, repo, Options{})

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.UploadErrors != 1 || stats.Inserted != 1 {
		t.Fatalf("stats = %+v, want one upload error and one insert", stats)
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	images := &stubImages{files: map[string][]byte{"a_01-03-2024.png": []byte("a")}}
	up := &stubUploader{}
	repo := &stubRepo{}
	s := newTestService(&stubLoader{rows: sampleRows()}, images, up, repo, Options{DryRun: true})

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(up.puts) != 0 || len(repo.inserted) != 0 {
		t.Fatalf("dry run wrote %d objects and %d rows", len(up.puts), len(repo.inserted))
	}

	wantStats := Stats{Rows: 3, Uploaded: 1, MissingImages: 2, DryRun: true}
	if diff := cmp.Diff(wantStats, stats, cmpopts.IgnoreFields(Stats{}, "Duration")); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_BoundedParallelism(t *testing.T) {
	var rows []entity.RawRow
	files := map[string][]byte{}
	for _, name := range []string{"1.png", "2.png", "3.png", "4.png", "5.png", "6.png", "7.png", "8.png"} {
		rows = append(rows, entity.RawRow{ImageName: name})
		files[name] = []byte(name)
	}
	up := &stubUploader{}
	s := newTestService(&stubLoader{rows: rows}, &stubImages{files: files}, up, &stubRepo{}, Options{Parallelism: 2})

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if up.peak > 2 {
		t.Fatalf("peak concurrent uploads = %d, want <= 2", up.peak)
	}
	if len(up.puts) != 8 {
		t.Fatalf("puts = %d, want 8", len(up.puts))
	}
}

func TestRun_LoadFailure(t *testing.T) {
	s := newTestService(&stubLoader{err: errors.New("workbook unreadable")}, &stubImages{}, &stubUploader{}, &stubRepo{}, Options{})

	_, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &stubRepo{}
	s := newTestService(&stubLoader{rows: sampleRows()}, &stubImages{}, &stubUploader{}, repo, Options{})

	_, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("inserted %d rows after cancellation", len(repo.inserted))
	}
}
