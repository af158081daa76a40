package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache computes values with fn on a miss and caches them.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache  CacheManager[K, V]
	fn     func(ctx context.Context, input I) (V, error)
	bypass bool
}

// NewReadThroughCache wraps cache. With bypass set every lookup calls fn.
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	bypass bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, fn: fn, bypass: bypass}
}

// Get returns the cached value for key or computes it from input.
// Failed computations are not cached.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.bypass {
		return r.fn(ctx, input)
	}
	if v, ok := r.cache.Get(ctx, key); ok {
		return v, nil
	}

	v, err := r.fn(ctx, input)
	if err != nil {
		return v, err
	}
	r.cache.Set(ctx, key, v, ttl)
	return v, nil
}
