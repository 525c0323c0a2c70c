package reconcile

import (
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/carriermap/pkg/constants"
	"github.com/agentstation/carriermap/pkg/countries"
)

// Option configures an Engine.
type Option func(*Engine)

// WithCountries restricts the run to the given ISO2 codes, in the given order.
func WithCountries(codes ...string) Option {
	return func(e *Engine) {
		e.countries = slices.Clone(codes)
	}
}

// WithDelay sets the pause after each country fetch.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.delay = d
		}
	}
}

// WithSleeper replaces time.Sleep for the inter-country pause.
func WithSleeper(s Sleeper) Option {
	return func(e *Engine) {
		if s != nil {
			e.sleep = s
		}
	}
}

// WithLogger sets the engine logger. By default the logger carried by the
// run context is used.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithProgressInterval sets how many countries pass between progress logs.
func WithProgressInterval(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.progressEvery = n
		}
	}
}

// WithClock replaces time.Now for run timing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func defaults() Engine {
	return Engine{
		countries:     countries.Codes(),
		delay:         constants.DefaultAPIDelay,
		sleep:         time.Sleep,
		progressEvery: constants.ProgressInterval,
		now:           time.Now,
	}
}
