package server

import (
	"net/http"

	"github.com/agentstation/carriermap/internal/server/handlers"
	"github.com/agentstation/carriermap/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux, s.handlers)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	mux.HandleFunc("GET /api/operators", h.HandleOperators)
	mux.HandleFunc("GET /api/geocode", h.HandleGeocode)
	mux.HandleFunc("POST /api/expand", h.HandleExpand)

	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /health/detailed", h.HandleHealthDetailed)

	if s.config.MetricsEnabled {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// Static files when configured, JSON 404 otherwise.
	mux.HandleFunc("/", h.HandleFallback)
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	handler = middleware.Metrics(s.metrics)(handler)

	if s.limiter != nil {
		handler = middleware.RateLimit(s.limiter)(handler)
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowedOrigins = cfg.CORSOrigins
	}

	return middleware.Chain(
		middleware.Recovery(s.logger, cfg.Development()),
		middleware.Logger(s.logger),
		middleware.CORS(corsConfig),
	)(handler)
}
