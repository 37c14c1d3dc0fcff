// Package cache stores computed layouts so repeated runs over an unchanged
// graph skip the layout stage.
//
// Keys come from a [Keyer] and combine the content hash of the normalized
// graph with every option that changes the output. Values are opaque bytes;
// the pipeline stores JSON-encoded layouts.
//
// Implementations:
//   - [FileCache]: one JSON file per key under a directory, for the CLI
//   - [RedisCache]: a shared redis, for the server
//   - [NullCache]: never stores anything
package cache

import (
	"context"
	"time"
)

// DefaultTTL is used when a caller passes no TTL.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key-value cache with expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts holds everything besides the graph that changes a layout.
type LayoutKeyOpts struct {
	Strategy  string   `json:"strategy"`
	Clustered bool     `json:"clustered"`
	MinSize   int      `json:"min_size,omitempty"`
	MaxDepth  int      `json:"max_depth,omitempty"`
	Collapsed []string `json:"collapsed,omitempty"` // sorted
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
