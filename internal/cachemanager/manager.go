// Package cachemanager provides small typed caches with expiry.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed key/value cache.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K)
	Flush(ctx context.Context)
	Len() int
}

// Stats counts lookups.
type Stats struct {
	Hits   uint64
	Misses uint64
}
