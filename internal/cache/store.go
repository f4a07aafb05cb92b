// Package cache provides a TTL-bounded response cache with single-flight
// collapsing of concurrent identical misses.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by a Store when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is a TTL key-value backend. Values are opaque bytes; callers encode.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}
