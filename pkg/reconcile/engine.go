package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/carriermap/internal/matcher"
	"github.com/agentstation/carriermap/pkg/countries"
	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/logging"
	"github.com/agentstation/carriermap/pkg/operators"
)

// Engine runs reconciliations. An Engine holds no per-run state, but runs
// against the same Store must not overlap.
type Engine struct {
	registry RegistrySource
	listings ListingSource
	store    Store

	countries     []string
	delay         time.Duration
	sleep         Sleeper
	logger        *zerolog.Logger
	progressEvery int
	now           func() time.Time
}

// New creates an Engine. store may be nil when only Build is used.
func New(registry RegistrySource, listings ListingSource, store Store, opts ...Option) *Engine {
	e := defaults()
	e.registry = registry
	e.listings = listings
	e.store = store
	for _, opt := range opts {
		opt(&e)
	}
	return &e
}

// Countries returns the ISO2 codes the engine walks, in order.
func (e *Engine) Countries() []string {
	return append([]string(nil), e.countries...)
}

// Build produces the merged, deduplicated and sorted collection. It never
// fails: an unavailable registry leaves every listing unmatched, and a
// failed country contributes no listings.
//
// Cancelling ctx does not stop the walk; each upstream call is bounded by
// its own timeout instead.
func (e *Engine) Build(ctx context.Context) (operators.Collection, Stats) {
	ctx = context.WithoutCancel(ctx)
	logger := e.loggerFor(ctx)
	ctx = logging.WithLogger(ctx, logger)

	var stats Stats

	registry, err := e.registry.FetchRegistry(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Registry unavailable, listings will not be matched")
		registry = nil
		stats.RegistryFailed = true
	}
	stats.RegistryRecords = len(registry)
	index := matcher.NewIndex(registry)

	out := make(operators.Collection, 0, len(registry))
	seen := make(map[string]struct{})
	claimed := make(map[string]struct{})

	add := func(op operators.OperatorRecord) bool {
		if _, dup := seen[op.OperatorID]; dup {
			stats.Duplicates++
			logger.Debug().
				Str("operator_id", op.OperatorID).
				Str("country", op.CountryCode).
				Msg("Dropping duplicate operator id")
			return false
		}
		seen[op.OperatorID] = struct{}{}
		out = append(out, op)
		return true
	}

	logger.Info().Int("countries", len(e.countries)).Msg("Fetching listings")
	for i, code := range e.countries {
		listings, err := e.listings.FetchListings(logging.WithCountry(ctx, code), code)
		stats.Countries++
		if err != nil {
			stats.CountriesFailed++
			logger.Debug().Err(err).Str("country", code).Msg("Listing fetch failed")
			listings = nil
		}

		for _, l := range listings {
			op := operators.FromListing(l)
			if match, ok := index.Find(l.ListingName); ok {
				op.RegistryID = match.RegistryID
				claimed[match.RegistryID] = struct{}{}
			}
			if add(op) {
				stats.Listings++
				if op.RegistryID != "" {
					stats.Matched++
				}
			}
		}

		e.sleep(e.delay)

		if (i+1)%e.progressEvery == 0 {
			logger.Info().Msgf("Processed %d/%d countries", i+1, len(e.countries))
		}
	}
	logger.Info().
		Int("listings", stats.Listings).
		Int("matched", stats.Matched).
		Int("failed_countries", stats.CountriesFailed).
		Msg("Loaded listings")

	unclaimed := 0
	for _, r := range registry {
		if _, ok := claimed[r.RegistryID]; ok {
			continue
		}
		unclaimed++
		code := countries.CodeForName(r.CountryName)
		if code == "" {
			stats.Unresolved++
			logger.Info().
				Str("registry_id", r.RegistryID).
				Str("name", r.Name).
				Str("country_name", r.CountryName).
				Msg("Dropping registry record with unknown country")
			continue
		}
		if add(operators.FromRegistry(r, code)) {
			stats.RegistryOnly++
		}
	}
	logger.Info().
		Int("unclaimed", unclaimed).
		Int("added", stats.RegistryOnly).
		Msg("Added registry-only operators")

	out.Sort()
	return out, stats
}

// Run builds the collection and saves it. The returned error is non-nil only
// when the save fails, and then matches errors.ErrPersistFailure.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := e.now()
	logger := e.loggerFor(ctx)
	logger.Info().Msg("Starting operator reconciliation")

	collection, stats := e.Build(ctx)

	if e.store == nil {
		return nil, &errors.IOError{Operation: "write", Message: "no store configured"}
	}
	if err := e.store.Save(ctx, collection); err != nil {
		if !errors.IsPersistFailure(err) {
			err = &errors.IOError{Operation: "write", Message: err.Error(), Err: err}
		}
		logger.Error().Err(err).Msg("Failed to save operators")
		return nil, err
	}

	result := &Result{
		Operators: collection,
		Stats:     stats,
		StartTime: start,
		Duration:  e.now().Sub(start),
	}
	logger.Info().
		Int("operators", len(collection)).
		Dur("duration", result.Duration).
		Msg("Saved operators")
	return result, nil
}

func (e *Engine) loggerFor(ctx context.Context) *zerolog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logging.FromContext(ctx)
}
