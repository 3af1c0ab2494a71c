// Package cache provides pluggable caching for expensive pipeline stages.
//
// The atlas layout for a given set of sprite geometries is fully deterministic,
// so re-running the packer over unchanged inputs can skip the MaxRects search
// entirely by replaying a cached plan. Three backends are provided:
//   - FileCache: XDG cache directory storage for CLI usage
//   - RedisCache: shared storage for CI fleets packing the same assets
//   - NullCache: caching disabled
//
// Keys are produced by a Keyer so that every option that changes the output
// participates in the key; two runs that could diverge never share an entry.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry type.
const (
	// TTLPlan is the lifetime of cached atlas plans. Plans are tiny and
	// deterministic, so they can live for a long time.
	TTLPlan = 30 * 24 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// PlanKeyOpts captures every packing option that influences plan output.
type PlanKeyOpts struct {
	Width     int
	Height    int
	Padding   int
	Rotate    bool
	Heuristic string
	Shrink    bool
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// PlanKey generates a key for a cached atlas plan. itemsHash must be a
	// content hash of the ordered candidate list.
	PlanKey(itemsHash string, opts PlanKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlanKey generates a key for a cached atlas plan.
func (k *DefaultKeyer) PlanKey(itemsHash string, opts PlanKeyOpts) string {
	return hashKey("plan", itemsHash, opts)
}
