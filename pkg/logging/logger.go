// Package logging configures zerolog for carriermap and carries loggers
// through context.Context, so the update job, the HTTP handlers and the
// link resolver each log with the fields of the work they are doing.
//
//	ctx := logging.WithCountry(ctx, "FR")
//	logging.FromContext(ctx).Info().Int("listings", 12).Msg("Fetched listings")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger backs FromContext when a context has no logger. Until the
// CLI installs its own it follows LOG_LEVEL and LOG_FORMAT.
var defaultLogger = NewLoggerFromConfig(&Config{
	Level:   os.Getenv("LOG_LEVEL"),
	Format:  os.Getenv("LOG_FORMAT"),
	NoColor: os.Getenv("NO_COLOR") != "",
})

// Default returns the process-wide fallback logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the fallback logger and zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
