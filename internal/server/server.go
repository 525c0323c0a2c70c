// Package server provides the HTTP server for the carriermap API.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/carriermap/internal/geocode"
	"github.com/agentstation/carriermap/internal/metrics"
	"github.com/agentstation/carriermap/internal/server/handlers"
	"github.com/agentstation/carriermap/internal/server/middleware"
	"github.com/agentstation/carriermap/pkg/constants"
	"github.com/agentstation/carriermap/pkg/errors"
)

// Deps are the outbound collaborators of the server. Nil fields get
// production defaults.
type Deps struct {
	Resolver handlers.LinkResolver
	Geocoder geocode.Geocoder
	Metrics  *metrics.Metrics
	Clock    func() time.Time
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	config   Config
	handlers *handlers.Handlers
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter
	logger   *zerolog.Logger
	handler  http.Handler
}

// New creates a new server instance with the given configuration.
func New(cfg Config, deps Deps, logger *zerolog.Logger) (*Server, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, errors.NewValidationError("port", cfg.Port, "port out of range")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	s := &Server{
		config:  cfg,
		metrics: deps.Metrics,
		logger:  logger,
		handlers: handlers.New(handlers.Deps{
			ArtifactPath: cfg.ArtifactPath,
			CacheTTL:     cfg.CacheTTL,
			StaticDir:    cfg.StaticDir,
			Resolver:     deps.Resolver,
			Geocoder:     deps.Geocoder,
			Metrics:      deps.Metrics,
			Logger:       logger,
			Verbose:      cfg.Development(),
			Clock:        deps.Clock,
		}),
	}
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}
	s.handler = s.setupRouter()
	return s, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Handlers returns the route handlers.
func (s *Server) Handlers() *handlers.Handlers {
	return s.handlers
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Run serves until ctx is cancelled, then shuts down gracefully, giving
// in-flight requests up to ShutdownTimeout to complete.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	if s.limiter != nil {
		go s.cleanupVisitors(ctx)
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", ln.Addr().String()).
			Str("environment", s.config.Environment).
			Msg("Server listening")
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Received shutdown signal, closing server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Forced shutdown after timeout")
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info().Msg("Server closed successfully")
	return nil
}

func (s *Server) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.limiter.Cleanup()
		}
	}
}
