// Package cache stores rendered frames and artifacts.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the preview server when several instances share work, and [NullCache]
// when caching is disabled. Keys come from a [Keyer] so that the same
// deck, offsets and render options always map to the same entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTLs.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// TTLs for cached entries. Frames and artifacts are pure functions of their
// key, so they only expire to bound disk and memory use.
const (
	TTLFrames   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// NullCache is a no-op cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
