package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"newsdesk/internal/httputil"
)

// Pinger is anything the health check can probe (pgx pool, stats cache)
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness plus the state of each dependency
type HealthHandler struct {
	checks map[string]Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a health handler. Nil pingers are skipped.
func NewHealthHandler(checks map[string]Pinger, logger *slog.Logger) *HealthHandler {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandler{checks: active, logger: logger}
}

// HealthCheck returns 200 when every dependency answers, 503 otherwise
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", "dependency", name, "error", err)
			deps[name] = "down"
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	httputil.RespondJSON(w, code, map[string]interface{}{
		"status":       status,
		"time":         time.Now().UTC(),
		"dependencies": deps,
	})
}
