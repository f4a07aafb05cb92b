package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache couples a Store with single-flight collapsing: concurrent misses for
// the same key share one computation instead of issuing duplicate upstream
// calls. Failures are shared with every waiter and never written to the
// store, so the next caller computes again.
type Cache struct {
	store  Store
	group  singleflight.Group
	logger *slog.Logger
}

// New wraps store with a single-flight layer.
func New(store Store, logger *slog.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

// Get returns the cached value for key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.store.Get(ctx, key)
}

// Invalidate removes key from the store.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// Clear removes every cached entry.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

// GetOrCompute returns the cached value for key, or runs compute exactly once
// across all concurrent callers of the same key and caches its result for ttl.
// A waiter whose own context ends stops waiting; the in-flight computation
// keeps running for the remaining waiters.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if value, err := c.store.Get(ctx, key); err == nil {
		return value, nil
	} else if !errors.Is(err, ErrMiss) {
		// A broken backend must not break the caller: fall through to compute.
		c.logger.Warn("cache read failed", "key", key, "error", err)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Re-check under the flight: a racing caller may have populated the
		// key between our miss and this function starting.
		if value, err := c.store.Get(ctx, key); err == nil {
			return value, nil
		}

		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		if err := c.store.Set(ctx, key, value, ttl); err != nil {
			c.logger.Warn("cache write failed", "key", key, "error", err)
		}
		return value, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("awaiting cached computation: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Resolve is GetOrCompute for a typed value, encoded as JSON in the store.
// Decoding always yields a fresh value, so callers can never mutate a cached
// entry in place.
func Resolve[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := c.GetOrCompute(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode cache value: %w", err)
		}
		return encoded, nil
	})
	if err != nil {
		return zero, err
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, fmt.Errorf("decode cache value: %w", err)
	}
	return value, nil
}
