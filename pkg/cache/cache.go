// Package cache provides pluggable caching for computed layouts.
//
// Layout runs are deterministic for a given graph and options, so the
// resulting document can be cached under a key derived from both. Backends
// cover the common deployments:
//   - FileCache for CLI usage (persists across invocations)
//   - MemoryCache for single-process servers
//   - RedisCache for multi-instance servers
//   - NullCache to disable caching entirely
package cache

import (
	"context"
	"time"
)

// TTLLayout is the default time-to-live for cached layout documents.
// Layouts are deterministic for a given key, so the TTL only bounds
// storage growth rather than staleness.
const TTLLayout = 7 * 24 * time.Hour

// Cache stores opaque byte payloads under string keys with optional TTLs.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was found;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts holds the layout options that affect the computed result.
// Two runs with the same graph hash and the same opts produce identical
// layouts, so they share a cache entry.
type LayoutKeyOpts struct {
	Iterations int     `json:"iterations"`
	Optimal    float64 `json:"optimal"`
	Seed       uint64  `json:"seed"`
	Directed   bool    `json:"directed"`
}

// Keyer generates cache keys for layout documents.
type Keyer interface {
	// LayoutKey generates a key for a layout computed from the graph with
	// the given content hash under the given options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
