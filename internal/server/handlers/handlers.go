// Package handlers provides the HTTP request handlers for the carriermap
// API: the operator dataset, reverse geocoding, link expansion and health.
package handlers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/carriermap/internal/geocode"
	"github.com/agentstation/carriermap/internal/metrics"
	"github.com/agentstation/carriermap/internal/persistence"
	"github.com/agentstation/carriermap/internal/resolver"
	"github.com/agentstation/carriermap/internal/server/cache"
	"github.com/agentstation/carriermap/pkg/constants"
	"github.com/agentstation/carriermap/pkg/operators"
)

// LinkResolver expands map links.
type LinkResolver interface {
	Resolve(ctx context.Context, raw string) (resolver.Result, error)
}

// Deps are the collaborators of the handlers.
type Deps struct {
	// ArtifactPath is the operators.json file to serve.
	ArtifactPath string
	// CacheTTL is how long the loaded artifact is served from memory.
	CacheTTL time.Duration
	// StaticDir, when set, is served for unmatched GET requests.
	StaticDir string
	Resolver  LinkResolver
	Geocoder  geocode.Geocoder
	Metrics   *metrics.Metrics
	Logger    *zerolog.Logger
	// Verbose adds error details to failure responses.
	Verbose bool
	// Clock replaces time.Now.
	Clock func() time.Time
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	artifactPath string
	staticDir    string
	operators    *cache.Artifact[operators.Collection]
	resolver     LinkResolver
	geocoder     geocode.Geocoder
	metrics      *metrics.Metrics
	logger       *zerolog.Logger
	verbose      bool
	now          func() time.Time
	startTime    time.Time
}

// New creates a new Handlers instance.
func New(deps Deps) *Handlers {
	if deps.ArtifactPath == "" {
		deps.ArtifactPath = constants.DefaultArtifactPath
	}
	if deps.CacheTTL == 0 {
		deps.CacheTTL = constants.OperatorsCacheTTL
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Logger == nil {
		nop := zerolog.Nop()
		deps.Logger = &nop
	}
	if deps.Resolver == nil {
		deps.Resolver = resolver.New()
	}
	if deps.Geocoder == nil {
		deps.Geocoder = geocode.NewCached(geocode.New(), constants.GeocodeCacheTTL)
	}

	h := &Handlers{
		artifactPath: deps.ArtifactPath,
		staticDir:    deps.StaticDir,
		resolver:     deps.Resolver,
		geocoder:     deps.Geocoder,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		verbose:      deps.Verbose,
		now:          deps.Clock,
		startTime:    deps.Clock(),
	}
	h.operators = cache.New(h.loadOperators, deps.CacheTTL, cache.WithClock(deps.Clock))
	return h
}

func (h *Handlers) loadOperators() (operators.Collection, error) {
	collection, err := persistence.Load(h.artifactPath)
	if err != nil {
		return nil, err
	}
	h.logger.Info().Int("operators", len(collection)).Msg("Loaded operators from file")
	h.metrics.SetOperatorRecords(len(collection))
	return collection, nil
}

// InvalidateOperators drops the cached artifact.
func (h *Handlers) InvalidateOperators() {
	h.operators.Invalidate()
}
