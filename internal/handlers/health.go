package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/grindhq/grindd/internal/kv"
	"github.com/grindhq/grindd/internal/queue"
)

// HealthChecker handles health check requests
type HealthChecker struct {
	local kv.Pinger
	sync  kv.Pinger
	jobs  queue.JobQueue
}

// NewHealthChecker creates a health checker over the storage backends and
// the job queue. Any of them may be nil when that backend is not wired.
func NewHealthChecker(local, sync kv.Pinger, jobs queue.JobQueue) *HealthChecker {
	return &HealthChecker{local: local, sync: sync, jobs: jobs}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		checks := make(map[string]string)

		h.runCheck(r.Context(), checks, "database", func(ctx context.Context) error {
			if h.local == nil {
				return nil
			}
			return h.local.Ping(ctx)
		}, &response)
		h.runCheck(r.Context(), checks, "cache", func(ctx context.Context) error {
			if h.sync == nil {
				return nil
			}
			return h.sync.Ping(ctx)
		}, &response)
		h.runCheck(r.Context(), checks, "queue", func(ctx context.Context) error {
			if h.jobs == nil {
				return nil
			}
			return h.jobs.HealthCheck(ctx)
		}, &response)

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(response)
		return
	}

	// Basic mode - just return that the server is running
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *HealthChecker) runCheck(ctx context.Context, checks map[string]string, name string, check func(context.Context) error, response *HealthResponse) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := check(ctx); err != nil {
		response.Status = "unhealthy"
		checks[name] = "unhealthy: " + err.Error()
		return
	}
	checks[name] = "healthy"
}
