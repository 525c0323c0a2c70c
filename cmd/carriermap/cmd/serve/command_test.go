package serve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/carriermap/internal/config"
	"github.com/agentstation/carriermap/internal/geocode"
	"github.com/agentstation/carriermap/internal/resolver"
)

func TestConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Port = 8081
	cfg.Environment = "production"
	cfg.OperatorsFile = "/data/ops.json"
	cfg.OperatorsCacheDuration = time.Minute
	cfg.CORSOrigin = "https://a.example,https://b.example"
	cfg.RateLimit = 30
	cfg.StaticDir = "public"

	sc := Config(cfg)
	assert.Equal(t, 8081, sc.Port)
	assert.False(t, sc.Development())
	assert.Equal(t, "/data/ops.json", sc.ArtifactPath)
	assert.Equal(t, time.Minute, sc.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, sc.CORSOrigins)
	assert.Equal(t, 30, sc.RateLimit)
	assert.Equal(t, "public", sc.StaticDir)
	assert.True(t, sc.MetricsEnabled)
}

func TestDeps(t *testing.T) {
	deps := Deps(config.Default())
	assert.IsType(t, &resolver.Resolver{}, deps.Resolver)
	assert.IsType(t, &geocode.CachedGeocoder{}, deps.Geocoder)
	assert.NotNil(t, deps.Metrics)
}
