package rest

import (
	"log/slog"
	"net/http"

	"github.com/bibbank/bib/services/propensity-service/pkg/auth"
)

// PublicPaths never require a token.
var PublicPaths = []string{"/", "/healthz", "/readyz", "/metrics"}

// RouterConfig gathers the handlers served over HTTP.
type RouterConfig struct {
	Health      *HealthHandler
	Predictions *PredictionHandler
	// Audit serves GET /predictions/{id} when non-nil.
	Audit   *AuditHandler
	Metrics http.Handler
	// JWT enables bearer token checks on the scoring endpoints when non-nil.
	JWT    *auth.JWTService
	Logger *slog.Logger
}

// NewRouter builds the HTTP handler tree.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	cfg.Health.RegisterRoutes(mux)
	cfg.Predictions.RegisterRoutes(mux)
	if cfg.Audit != nil {
		cfg.Audit.RegisterRoutes(mux)
	}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	middlewares := []func(http.Handler) http.Handler{
		LoggingMiddleware(cfg.Logger),
		RecoverMiddleware(cfg.Logger),
	}
	if cfg.JWT != nil {
		middlewares = append(middlewares, auth.HTTPMiddleware(cfg.JWT, PublicPaths, auth.ScoringRoles...))
	}

	return Chain(mux, middlewares...)
}
