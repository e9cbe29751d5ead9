package rest

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

const serviceName = "propensity-service"

// rootMessage is the body of GET / kept for existing API clients.
const rootMessage = "Bank Marketing Model API is running"

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler provides HTTP health check endpoints for the propensity service.
type HealthHandler struct {
	logger    *slog.Logger
	checks    map[string]ReadinessCheck
	startTime time.Time
}

// NewHealthHandler creates a new health check handler. Every check must pass
// for /readyz to report ready.
func NewHealthHandler(logger *slog.Logger, checks map[string]ReadinessCheck) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		checks:    checks,
		startTime: time.Now(),
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Checks  map[string]string `json:"checks"`
	Status  string            `json:"status"`
	Service string            `json:"service"`
}

// RootResponse is the JSON response for the API root.
type RootResponse struct {
	Message string `json:"message"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Root confirms the API is up.
func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{Message: rootMessage})
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Readyz runs every readiness check and answers 503 if any fails.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			ready = false
			results[name] = err.Error()
			h.logger.WarnContext(ctx, "readiness check failed",
				slog.String("check", name),
				slog.String("error", err.Error()),
			)
			continue
		}
		results[name] = "ok"
	}

	resp := ReadinessResponse{Status: "ready", Service: serviceName, Checks: results}
	status := http.StatusOK
	if !ready {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
