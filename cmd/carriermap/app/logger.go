package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/carriermap/internal/cmd/globals"
	"github.com/agentstation/carriermap/internal/config"
	"github.com/agentstation/carriermap/pkg/logging"
)

// NewLogger builds the CLI logger. Level precedence, highest first:
//  1. --log-level
//  2. -q/--quiet (warn), which beats -v/--verbose (debug)
//  3. LOG_LEVEL
//  4. info
func NewLogger(cfg *config.Config, flags *globals.Flags) zerolog.Logger {
	level := determineLogLevel(cfg, flags)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Output:    cfg.LogOutput,
		NoColor:   flags.NoColor || os.Getenv("NO_COLOR") != "",
		AddCaller: level == "debug" || level == "trace",
	})
}

func determineLogLevel(cfg *config.Config, flags *globals.Flags) string {
	if flags.LogLevel != "" {
		validated := validateLogLevel(flags.LogLevel)
		if validated != flags.LogLevel {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", flags.LogLevel, validated)
		}
		return validated
	}

	if flags.Verbose && flags.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if flags.Verbose {
		return "debug"
	}
	if flags.Quiet {
		return "warn"
	}

	if cfg.LogLevel != "" {
		return validateLogLevel(cfg.LogLevel)
	}
	return "info"
}

var validLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validateLogLevel returns level if known, otherwise "info".
func validateLogLevel(level string) string {
	if validLevels[level] {
		return level
	}
	return "info"
}
