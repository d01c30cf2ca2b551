package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/resilience/retry"
)

func fastRetry(s *HTTPSource) *HTTPSource {
	s.retry = retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	return s
}

func TestHTTPSource_Fetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/images", srv.Client(), 0)
	img, err := src.Fetch(context.Background(), "ગુજરાત સમાચાર_12-03-2024.JPG")
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, []byte("jpeg-bytes"), img.Data)
	assert.True(t, strings.HasPrefix(gotPath, "/images/"))
	assert.Contains(t, gotPath, "%20", "spaces must be escaped")
}

func TestHTTPSource_NotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := fastRetry(NewHTTPSource(srv.URL, srv.Client(), 0))
	_, err := src.Fetch(context.Background(), "missing.png")

	assert.ErrorIs(t, err, ErrImageNotFound)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Equal(t, int32(1), calls.Load(), "404 must not be retried")
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("png"))
	}))
	defer srv.Close()

	src := fastRetry(NewHTTPSource(srv.URL, srv.Client(), 0))
	img, err := src.Fetch(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPSource_PersistentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := fastRetry(NewHTTPSource(srv.URL, srv.Client(), 0))
	_, err := src.Fetch(context.Background(), "a.png")
	require.Error(t, err)

	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.False(t, errors.Is(err, ErrImageNotFound))
}

func TestHTTPSource_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, srv.Client(), 10)
	_, err := src.Fetch(context.Background(), "a.png")
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestHTTPSource_RejectsPathElements(t *testing.T) {
	src := NewHTTPSource("http://127.0.0.1:0", nil, 0)
	for _, name := range []string{"", "../secret.png", "a/b.png"} {
		_, err := src.Fetch(context.Background(), name)
		assert.ErrorIs(t, err, entity.ErrValidationFailed, name)
	}
}

func TestHTTPSource_URL(t *testing.T) {
	src := NewHTTPSource("https://example.com/images/", nil, 0)
	assert.Equal(t, "https://example.com/images/a%20b_01-01-2024.png", src.URL("a b_01-01-2024.png"))

	src = NewHTTPSource("https://example.com/images", nil, 0)
	assert.Equal(t, "https://example.com/images/x.png", src.URL("x.png"))
}
