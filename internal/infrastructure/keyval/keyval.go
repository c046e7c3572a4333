// Package keyval is the durable keyed store behind session snapshots and
// the local fallback collections. Values are JSON-serialized blobs and
// writes are last-writer-wins.
package keyval

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// Store is a process-wide keyed store. Implementations: sqlite file
// (default) and redis (when configured).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
