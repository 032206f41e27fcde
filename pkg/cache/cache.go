// Package cache stores serialized trees between runs.
//
// Scanning a large directory or bucket is much slower than laying it out, so
// the pipeline caches the scanned tree (never the layout) under a key derived
// from the source. The HTTP server uses the same interface to keep uploaded
// trees.
//
// Backends:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared storage for server deployments
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer] so callers never assemble them by hand.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// TTLScan is how long a scanned directory or bucket tree stays valid.
	TTLScan = time.Hour

	// TTLUpload is how long the server keeps an uploaded tree.
	TTLUpload = 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss, including
	// expired entries.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// TreeKeyOpts are the scan options that change the resulting tree.
type TreeKeyOpts struct {
	Hidden   bool `json:"hidden,omitempty"`
	MaxFiles int  `json:"max_files,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// TreeKey identifies a scanned tree, e.g. source "dir" with input
	// "/home/me/src".
	TreeKey(source, input string, opts TreeKeyOpts) string

	// UploadKey identifies a tree uploaded to the server.
	UploadKey(id string) string
}

// DefaultKeyer produces keys of the form "tree:<sha256>" and "upload:<id>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey hashes the source, input and options.
func (DefaultKeyer) TreeKey(source, input string, opts TreeKeyOpts) string {
	return hashKey("tree", source, input, opts)
}

// UploadKey returns "upload:<id>".
func (DefaultKeyer) UploadKey(id string) string {
	return "upload:" + id
}

var _ Keyer = DefaultKeyer{}
