// Package store is the persistence boundary: an opaque mapping from string
// keys to JSON documents. Every write replaces the whole value for a key.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when nothing has been stored under a key.
var ErrNotFound = errors.New("store: key not found")

// Store is implemented by every persistence driver.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
