// Package cache stores raw provider responses between catalog builds.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for CI runners building the same catalog
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are plain strings. Use [Namespace] to give each provider its own key
// space.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss or when
	// the entry expired; err is reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
