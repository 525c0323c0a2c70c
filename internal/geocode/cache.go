package geocode

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/carriermap/pkg/constants"
)

// CachedGeocoder memoizes successful lookups of another Geocoder.
// Failures are not cached.
type CachedGeocoder struct {
	next  Geocoder
	store *gocache.Cache
}

// NewCached wraps next with a cache whose entries live for ttl.
// A non-positive ttl uses the default of one day.
func NewCached(next Geocoder, ttl time.Duration) *CachedGeocoder {
	if ttl <= 0 {
		ttl = constants.GeocodeCacheTTL
	}
	return &CachedGeocoder{
		next:  next,
		store: gocache.New(ttl, constants.CacheCleanupInterval),
	}
}

// Reverse returns a cached location or asks the wrapped geocoder.
func (c *CachedGeocoder) Reverse(ctx context.Context, lat, lng float64) (Location, error) {
	k := key(lat, lng)
	if v, ok := c.store.Get(k); ok {
		return v.(Location), nil
	}
	loc, err := c.next.Reverse(ctx, lat, lng)
	if err != nil {
		return Location{}, err
	}
	c.store.SetDefault(k, loc)
	return loc, nil
}

// Len returns the number of cached entries.
func (c *CachedGeocoder) Len() int {
	return c.store.ItemCount()
}

// Flush empties the cache.
func (c *CachedGeocoder) Flush() {
	c.store.Flush()
}
