// Package cache stores rendered artifacts keyed by the hash of their DOT
// source.
//
// Serialization is deterministic, so identical diagrams produce identical DOT
// text and the same [Keyer.ArtifactKey]. Three implementations are provided:
//
//   - [FileCache] for the CLI, under the user cache directory
//   - [RedisCache] for the HTTP service, shared between replicas
//   - [NullCache] when caching is disabled
//
// Misses are reported as (nil, false, nil); errors are reserved for storage
// failures, which callers log and otherwise ignore.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
