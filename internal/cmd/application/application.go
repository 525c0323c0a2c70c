// Package application defines what commands need from the running CLI.
//
// Commands accept Application rather than the concrete app type so they can
// be exercised with a Mock:
//
//	mock := &application.Mock{
//	    ConfigFunc: func() *config.Config {
//	        cfg := config.Default()
//	        cfg.OperatorsFile = path
//	        return cfg
//	    },
//	}
//	cmd := list.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/carriermap/internal/config"
)

// Application is implemented by cmd/carriermap/app.App.
type Application interface {
	// Config returns the resolved configuration. Commands may copy it but
	// must not mutate the returned value.
	Config() *config.Config

	// Logger returns the configured logger.
	Logger() *zerolog.Logger

	// OutputFormat returns the --format value, possibly empty.
	OutputFormat() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
