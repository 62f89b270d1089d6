// Package cache stores derived artifacts (settled frames, rendered images)
// keyed by a hash of everything that produced them.
//
// Live engine state is never cached; only the output of deterministic runs.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: stores nothing, for tests and --no-cache
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//
// [Observe] wraps any backend so hits, misses and writes reach the
// observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
//
// Get returns (nil, false, nil) on a miss; an error means the backend
// itself failed. A zero ttl stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
