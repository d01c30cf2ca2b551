// Package pagination slices result lists into pages for HTTP responses.
package pagination

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	env "headline-desk/pkg/config"
)

// ErrInvalidParams is wrapped by every parameter error.
var ErrInvalidParams = errors.New("invalid query parameter")

// Config holds pagination limits.
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns limit=50, max=500.
func DefaultConfig() Config {
	return Config{DefaultLimit: 50, MaxLimit: 500}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT and PAGINATION_MAX_LIMIT on top of
// the defaults. Inconsistent values fall back to the defaults.
func LoadFromEnv() Config {
	def := DefaultConfig()
	cfg := Config{
		DefaultLimit: env.GetEnvInt("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     env.GetEnvInt("PAGINATION_MAX_LIMIT", def.MaxLimit),
	}
	if cfg.MaxLimit < 1 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.DefaultLimit < 1 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(def.DefaultLimit, cfg.MaxLimit)
	}
	return cfg
}

// Params is a 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// ParseQueryParams reads page and limit from the query string.
// ok is false when neither parameter is present, meaning the caller wants everything.
func ParseQueryParams(r *http.Request, cfg Config) (params Params, ok bool, err error) {
	q := r.URL.Query()
	pageStr, limitStr := q.Get("page"), q.Get("limit")
	params = Params{Page: 1, Limit: cfg.DefaultLimit}
	if pageStr == "" && limitStr == "" {
		return params, false, nil
	}

	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, false, fmt.Errorf("%w: page must be a positive integer", ErrInvalidParams)
		}
		params.Page = page
	}
	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > cfg.MaxLimit {
			return params, false, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidParams, cfg.MaxLimit)
		}
		params.Limit = limit
	}
	return params, true, nil
}

// Metadata describes the page returned.
type Metadata struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// TotalPages is at least 1 so that an empty result still has a first page.
func TotalPages(total, limit int) int {
	if total == 0 || limit < 1 {
		return 1
	}
	return (total + limit - 1) / limit
}

// Slice returns the items of the requested page. A page past the end is empty.
func Slice[T any](items []T, p Params) ([]T, Metadata) {
	meta := Metadata{
		Total:      len(items),
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(len(items), p.Limit),
	}
	start := (p.Page - 1) * p.Limit
	if start < 0 || start >= len(items) {
		return []T{}, meta
	}
	end := min(start+p.Limit, len(items))
	return items[start:end], meta
}
