package server

import (
	"time"

	"github.com/agentstation/carriermap/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// Environment is "development" or "production". Development responses
	// include error details.
	Environment string

	// Data
	ArtifactPath string
	StaticDir    string
	CacheTTL     time.Duration

	// CORS settings
	CORSOrigins []string

	// RateLimit is requests per minute per IP (0 to disable).
	RateLimit int

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Features
	MetricsEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "",
		Port:           constants.DefaultPort,
		Environment:    constants.DefaultEnvironment,
		ArtifactPath:   constants.DefaultArtifactPath,
		CacheTTL:       constants.OperatorsCacheTTL,
		CORSOrigins:    []string{"*"},
		RateLimit:      0,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
	}
}

// Development reports whether the server runs in development mode.
func (c Config) Development() bool {
	return c.Environment == "development"
}
