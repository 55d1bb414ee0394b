// Package kv provides the two key-value partitions backing all persistent
// state: a synced partition (small, cross-device: settings, block list) on
// Redis and a local partition (stats, session, limits, gamification) on
// Postgres. Accessors in internal/store layer shape defaults on top.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// KV is a JSON-blob-per-key store. Values are opaque bytes to this layer;
// encoding and shape repair live in internal/store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Pinger is implemented by backends that can report connectivity for health
// checks.
type Pinger interface {
	Ping(ctx context.Context) error
}
