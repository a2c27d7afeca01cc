// Package cache stores rendered chart artifacts keyed by content hash.
//
// The render pipeline fingerprints its inputs (dataset, field spec, chart
// config, container size) and looks the fingerprint up here before doing any
// layout work. Three backends are provided:
//
//   - [FileCache]: one JSON envelope per key under a directory, for the CLI
//   - [RedisCache]: a shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so every backend agrees on the layout of the
// key space.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A miss is reported as (nil, false, nil), never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes per artifact kind. Scenes depend on everything and
// churn the fastest; datasets are re-imported when their source changes.
const (
	TTLScene    = 24 * time.Hour
	TTLGeometry = 7 * 24 * time.Hour
	TTLDataset  = time.Hour
)
