// Package reconcile builds the canonical operator dataset by merging the
// registry with the per-country listings.
//
// A run fetches the registry once, walks the fixed country list one country
// at a time (pausing after every fetch), fuzzy-matches each listing against
// the registry, appends registry records no listing claimed, sorts the
// result and hands it to a Store. Only a failed save is an error; every
// upstream failure degrades the dataset instead.
package reconcile

import (
	"context"
	"time"

	"github.com/agentstation/carriermap/pkg/operators"
)

// RegistrySource provides the canonical operator registry.
type RegistrySource interface {
	FetchRegistry(ctx context.Context) ([]operators.RegistryRecord, error)
}

// ListingSource provides operator listings for one ISO2 country code.
type ListingSource interface {
	FetchListings(ctx context.Context, countryCode string) ([]operators.ListingRecord, error)
}

// Store persists a finished collection, replacing any previous one.
type Store interface {
	Save(ctx context.Context, collection operators.Collection) error
}

// Sleeper pauses between country fetches.
type Sleeper func(d time.Duration)

// RegistryFunc adapts a function to RegistrySource.
type RegistryFunc func(ctx context.Context) ([]operators.RegistryRecord, error)

// FetchRegistry implements RegistrySource.
func (f RegistryFunc) FetchRegistry(ctx context.Context) ([]operators.RegistryRecord, error) {
	return f(ctx)
}

// ListingFunc adapts a function to ListingSource.
type ListingFunc func(ctx context.Context, countryCode string) ([]operators.ListingRecord, error)

// FetchListings implements ListingSource.
func (f ListingFunc) FetchListings(ctx context.Context, countryCode string) ([]operators.ListingRecord, error) {
	return f(ctx, countryCode)
}
