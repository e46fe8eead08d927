// Package cache provides the byte cache behind ventgraph's result reuse.
//
// A [Cache] stores opaque values under string keys with an optional TTL.
// Four backends are available:
//
//   - [NullCache]: stores nothing, used with --no-cache
//   - [FileCache]: one JSON file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for servers and teams
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// Keys are produced by a [Keyer] so that every producer and consumer of a
// cached value agrees on its name. A [ScopedKeyer] namespaces keys, which
// lets several deployments share one Redis or Mongo backend.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store for serialized networks and solve results.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value. A miss is (nil, false, nil), never an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// TTLs for cached values. Solve results are a pure function of their key, so
// they live long; parsed networks are cheap to rebuild.
const (
	TTLResult   = 30 * 24 * time.Hour
	TTLDistance = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLNetwork  = 7 * 24 * time.Hour
)

// Keyer names cache entries.
type Keyer interface {
	// NetworkKey names a canonical network document.
	NetworkKey(networkHash string) string
	// ResultKey names a solve result for a network and its options.
	ResultKey(networkHash string, opts ResultKeyOpts) string
	// DistanceKey names a serialized distance table.
	DistanceKey(networkHash, start string) string
	// ArtifactKey names a rendered diagram.
	ArtifactKey(networkHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts lists every option that changes a solve result.
type ResultKeyOpts struct {
	Start       string `json:"start"`
	Budget      int    `json:"budget"`
	SplitBudget int    `json:"split_budget"`
	SkipSplit   bool   `json:"skip_split"`
	Routes      bool   `json:"routes"`
}

// ArtifactKeyOpts lists every option that changes a rendered diagram.
type ArtifactKeyOpts struct {
	Format    string        `json:"format"`
	Detailed  bool          `json:"detailed"`
	Highlight bool          `json:"highlight"`
	Result    ResultKeyOpts `json:"result"` // only meaningful with Highlight
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// NetworkKey returns "network:<hash>".
func (DefaultKeyer) NetworkKey(networkHash string) string {
	return "network:" + networkHash
}

// ResultKey hashes the network hash together with the options.
func (DefaultKeyer) ResultKey(networkHash string, opts ResultKeyOpts) string {
	return hashKey("result", networkHash, opts)
}

// DistanceKey hashes the network hash together with the start node.
func (DefaultKeyer) DistanceKey(networkHash, start string) string {
	return hashKey("distances", networkHash, start)
}

// ArtifactKey hashes the network hash together with the render options.
func (DefaultKeyer) ArtifactKey(networkHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", networkHash, opts)
}

var _ Keyer = DefaultKeyer{}
