package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/blogrelay/internal/api/shared"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
)

// DefaultReadyTimeout bounds a single readiness check.
const DefaultReadyTimeout = 2 * time.Second

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	ready   func(ctx context.Context) error
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler. ready may be nil, in which case
// readiness always succeeds.
func NewHealthHandler(ready func(ctx context.Context) error, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	return &HealthHandler{ready: ready, timeout: timeout}
}

// Health reports that the process is serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready reports whether the object store is reachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			logger.FromContextOrDefault(r.Context(), nil).
				Warn("readiness check failed", slog.String("error", err.Error()))
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable,
				HealthResponse{Status: "unavailable", Error: "object store unreachable"})
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ready"})
}
