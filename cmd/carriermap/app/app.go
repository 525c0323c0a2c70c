// Package app wires configuration, logging and commands for the carriermap
// CLI.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/carriermap/internal/cmd/globals"
	"github.com/agentstation/carriermap/internal/config"
	"github.com/agentstation/carriermap/pkg/errors"
)

// App carries build information, configuration and the logger. It
// implements application.Application.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config      *config.Config
	flags       *globals.Flags
	logger      *zerolog.Logger
	fixedLogger bool
}

// New creates an App with configuration loaded from the environment. The
// configuration is loaded again once flags are parsed if --config is given.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		flags:   &globals.Flags{},
	}

	cfg, err := config.Load("")
	if err != nil {
		return nil, &errors.ConfigError{Component: "app", Message: "load config", Err: err}
	}
	a.config = cfg

	logger := NewLogger(cfg, a.flags)
	a.logger = &logger

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Version returns the version string.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the resolved configuration.
func (a *App) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the --format flag value.
func (a *App) OutputFormat() string { return a.flags.Output }

// Option configures an App.
type Option func(*App) error

// WithConfig replaces the loaded configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithLogger replaces the logger. A logger set this way survives flag
// parsing.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.fixedLogger = true
		return nil
	}
}
