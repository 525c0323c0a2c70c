// Package serve implements the HTTP server command.
package serve

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/carriermap/internal/cmd/application"
	"github.com/agentstation/carriermap/internal/config"
	"github.com/agentstation/carriermap/internal/geocode"
	"github.com/agentstation/carriermap/internal/metrics"
	"github.com/agentstation/carriermap/internal/resolver"
	"github.com/agentstation/carriermap/internal/server"
	"github.com/agentstation/carriermap/internal/server/middleware"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Serve the operators dataset, link expansion and reverse geocoding",
		Long: `Serve starts the HTTP API:

  GET  /api/operators     the operators dataset (optional ?country=XX)
  GET  /api/geocode       reverse geocode ?lat=&lng=
  POST /api/expand        expand a map link to coordinates
  GET  /health            liveness
  GET  /health/detailed   liveness plus dataset presence
  GET  /metrics           Prometheus metrics

Settings come from the environment (PORT, NODE_ENV, CORS_ORIGIN, ...);
flags given here take precedence.`,
		Example: `  carriermap serve
  carriermap serve --port 8080 --rate-limit 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := Config(app.Config())
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("host") {
				cfg.Host, _ = cmd.Flags().GetString("host")
			}
			if cmd.Flags().Changed("rate-limit") {
				cfg.RateLimit, _ = cmd.Flags().GetInt("rate-limit")
			}
			cfg.MetricsEnabled, _ = cmd.Flags().GetBool("metrics")

			logger := app.Logger()
			srv, err := server.New(cfg, Deps(app.Config()), logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			logger.Info().
				Str("addr", srv.Addr()).
				Str("environment", cfg.Environment).
				Str("artifact", cfg.ArtifactPath).
				Int("rate_limit", cfg.RateLimit).
				Msg("Starting server")
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().Int("port", 0, "listen port (default PORT or 3000)")
	cmd.Flags().String("host", "", "bind address (default all interfaces)")
	cmd.Flags().Int("rate-limit", 0, "requests per minute per IP, 0 disables (default RATE_LIMIT)")
	cmd.Flags().Bool("metrics", true, "expose /metrics")

	return cmd
}

// Config maps CLI configuration onto the server configuration.
func Config(cfg *config.Config) server.Config {
	sc := server.DefaultConfig()
	sc.Host = cfg.Host
	sc.Port = cfg.Port
	sc.Environment = cfg.Environment
	sc.ArtifactPath = cfg.OperatorsFile
	sc.StaticDir = cfg.StaticDir
	sc.CacheTTL = cfg.OperatorsCacheDuration
	sc.CORSOrigins = middleware.ParseOrigins(cfg.CORSOrigin)
	sc.RateLimit = cfg.RateLimit
	return sc
}

// Deps builds the outbound clients the server uses.
func Deps(cfg *config.Config) server.Deps {
	nominatim := geocode.New(
		geocode.WithURL(cfg.NominatimURL),
		geocode.WithTimeout(cfg.RequestTimeout),
	)
	return server.Deps{
		Resolver: resolver.New(resolver.WithTimeout(cfg.RequestTimeout)),
		Geocoder: geocode.NewCached(nominatim, cfg.CacheDuration),
		Metrics:  metrics.New(),
	}
}
