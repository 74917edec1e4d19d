package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"linkpreview/internal/http/respond"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	logger *slog.Logger
	checks map[string]HealthCheck
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// NewHealthHandler creates a health handler running the named checks
func NewHealthHandler(logger *slog.Logger, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		checks: checks,
	}
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if len(h.checks) > 0 {
		response.Checks = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("Health check failed", "check", name, "error", err)
			response.Checks[name] = "unhealthy"
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "ok"
	}

	respond.JSON(w, h.logger, status, response)
}

// NotFound answers unknown routes with a JSON 404
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, logger, http.StatusNotFound, "Not Found", "Cannot "+r.Method+" "+r.URL.Path)
	}
}
