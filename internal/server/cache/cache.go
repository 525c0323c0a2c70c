// Package cache provides the in-memory artifact cache for the HTTP server.
// An Artifact holds one loaded value together with the time it was
// fetched, and reloads it once its TTL has elapsed.
package cache

import (
	"sync"
	"time"
)

// Loader produces a fresh value.
type Loader[T any] func() (T, error)

// Artifact memoizes the result of a Loader for a fixed TTL.
type Artifact[T any] struct {
	mu        sync.Mutex
	load      Loader[T]
	ttl       time.Duration
	now       func() time.Time
	value     T
	fetchedAt time.Time
	valid     bool
}

// Option configures an Artifact.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an Artifact backed by load. A non-positive ttl disables
// caching.
func New[T any](load Loader[T], ttl time.Duration, opts ...Option) *Artifact[T] {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return &Artifact[T]{load: load, ttl: ttl, now: o.now}
}

// Get returns the cached value while it is fresh and loads it otherwise.
// Failed loads are not cached. hit reports whether the value came from
// the cache.
func (a *Artifact[T]) Get() (value T, hit bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if a.valid && now.Sub(a.fetchedAt) < a.ttl {
		return a.value, true, nil
	}

	v, err := a.load()
	if err != nil {
		var zero T
		return zero, false, err
	}
	a.value, a.fetchedAt, a.valid = v, now, true
	return v, false, nil
}

// Invalidate forces the next Get to reload.
func (a *Artifact[T]) Invalidate() {
	a.mu.Lock()
	a.valid = false
	a.mu.Unlock()
}

// TTL returns the freshness window.
func (a *Artifact[T]) TTL() time.Duration {
	return a.ttl
}

// FetchedAt returns when the cached value was loaded, or the zero time.
func (a *Artifact[T]) FetchedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.valid {
		return time.Time{}
	}
	return a.fetchedAt
}
