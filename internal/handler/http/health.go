// Package http holds the HTTP server plumbing of headline-desk: middleware, request
// metrics and the health endpoints. Headline routes live in the headline subpackage.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"headline-desk/internal/handler/http/respond"
	"headline-desk/internal/resilience/circuitbreaker"
	"headline-desk/internal/usecase/headline"
)

// Check statuses.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the JSON body of /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// SnapshotProvider exposes the current dataset snapshot. *headline.Service implements it.
type SnapshotProvider interface {
	Snapshot() (headline.Snapshot, error)
}

// HealthHandler reports dataset, database and circuit breaker status.
// DB is optional and only checked when the dataset is read from Postgres.
type HealthHandler struct {
	Dataset  SnapshotProvider
	DB       *sql.DB
	Breakers []*circuitbreaker.CircuitBreaker
	Version  string
}

// ServeHTTP answers 200 when every required check passes and 503 otherwise.
// Degraded checks and open circuit breakers are reported but do not fail the check.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{"dataset": h.checkDataset()}
	if h.DB != nil {
		checks["database"] = h.checkDatabase(ctx)
	}
	if len(h.Breakers) > 0 {
		checks["circuit_breakers"] = h.checkBreakers()
	}

	status, code := statusHealthy, http.StatusOK
	for _, c := range checks {
		if c.Status == statusUnhealthy {
			status, code = statusUnhealthy, http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkDataset() CheckStatus {
	if h.Dataset == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	snap, err := h.Dataset.Snapshot()
	if err != nil {
		return CheckStatus{Status: statusUnhealthy, Message: err.Error()}
	}
	details := map[string]any{
		"articles":  snap.Len(),
		"undated":   snap.Undated(),
		"loaded_at": snap.LoadedAt().UTC().Format(time.RFC3339),
	}
	if snap.Len() == 0 {
		return CheckStatus{Status: statusDegraded, Message: "dataset is empty", Details: details}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

// checkDatabase pings the database and reports pool statistics.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: statusUnhealthy, Message: respond.SanitizeError(err)}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}

	if stats.MaxOpenConnections == 0 {
		return CheckStatus{Status: statusDegraded, Message: "connection pool max connections not configured", Details: details}
	}
	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= 80 {
		return CheckStatus{Status: statusDegraded, Message: "connection pool utilization above 80%", Details: details}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

func (h *HealthHandler) checkBreakers() CheckStatus {
	details := make(map[string]any, len(h.Breakers))
	status := statusHealthy
	for _, cb := range h.Breakers {
		details[cb.Name()] = cb.State().String()
		if cb.IsOpen() {
			status = statusDegraded
		}
	}
	return CheckStatus{Status: status, Details: details}
}

// ReadyHandler answers 200 once a dataset snapshot is loaded.
type ReadyHandler struct {
	Dataset SnapshotProvider
	DB      *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.Dataset == nil {
		http.Error(w, "dataset not configured", http.StatusServiceUnavailable)
		return
	}
	if _, err := h.Dataset.Snapshot(); err != nil {
		http.Error(w, "dataset not ready", http.StatusServiceUnavailable)
		return
	}
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			http.Error(w, "database not ready", http.StatusServiceUnavailable)
			return
		}
	}
	writeText(w, "ready")
}

// LiveHandler answers 200 while the process can serve requests.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "alive")
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Default().Debug("failed to write probe response", slog.Any("error", err))
	}
}
