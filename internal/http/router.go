package http

import (
	"log/slog"
	"net/http"

	"linkpreview/internal/http/handlers"
	"linkpreview/internal/http/middleware"
)

// RouterConfig holds everything the routes depend on
type RouterConfig struct {
	Logger         *slog.Logger
	Previewer      handlers.Previewer
	Limiter        middleware.Limiter
	TrustProxy     bool
	AllowedOrigins []string
	ExposeErrors   bool
	HealthChecks   map[string]handlers.HealthCheck
}

type Router struct {
	mux            *http.ServeMux
	config         RouterConfig
	healthHandler  *handlers.HealthHandler
	previewHandler *handlers.PreviewHandler
}

func NewRouter(config RouterConfig) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		config:         config,
		healthHandler:  handlers.NewHealthHandler(config.Logger, config.HealthChecks),
		previewHandler: handlers.NewPreviewHandler(config.Logger, config.Previewer),
	}
}

func (r *Router) SetupRoutes() http.Handler {
	logger := r.config.Logger

	// Every /api/ route shares the per-client budget
	rateLimited := middleware.RateLimit(r.config.Limiter, middleware.ClientIP(r.config.TrustProxy), logger)

	// Health check
	r.mux.HandleFunc("GET /health", r.healthHandler.HandleHealth)

	// API routes
	r.mux.Handle("GET /api/preview", rateLimited(http.HandlerFunc(r.previewHandler.GetPreview)))
	r.mux.Handle("/api/", rateLimited(handlers.NotFound(logger)))

	r.mux.Handle("/", handlers.NotFound(logger))

	return middleware.Chain(r.mux,
		middleware.Logging(logger),
		middleware.Recover(logger, r.config.ExposeErrors),
		middleware.SecurityHeaders,
		middleware.CORS(r.config.AllowedOrigins, logger),
	)
}
