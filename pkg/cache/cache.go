// Package cache provides content-addressed caching for pipeline outputs.
//
// Rendering a diagram is pure, so outputs can be keyed entirely by a hash
// of the WaveJSON source plus the options that shaped them. Watch mode and
// batch rendering use this to skip work for unchanged inputs. Two backends
// are provided: a file cache for CLI usage and a null cache that disables
// caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts (SVG, JSON) are kept.
const TTLArtifact = 14 * 24 * time.Hour

// Cache stores pipeline outputs keyed by content hashes.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer generates cache keys for pipeline outputs.
type Keyer interface {
	// ArtifactKey keys a rendered artifact by source hash and render options.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the compile, layout, and render options that shape an
// artifact. Any field change produces a different key.
type ArtifactKeyOpts struct {
	Format           string   `json:"format"`
	HScale           int      `json:"hscale"`
	ReserveGroupRows bool     `json:"reserve_group_rows"`
	Palette          []string `json:"palette,omitempty"`
	InstanceID       string   `json:"instance_id,omitempty"`
}

// DefaultKeyer hashes option structs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key for a cached artifact.
func (k *DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}
