// Package cache provides the read-through caches used in front of the
// storage gateway: an in-process TTL store and a Redis-backed store.
package cache

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
)

// Cache is implemented by Store and RedisStore.
type Cache interface {
	// Invalidate drops every entry written so far.
	Invalidate(ctx context.Context) error

	getOrLoad(ctx context.Context, key string, load func(context.Context) (any, error), decode func([]byte) (any, error)) (any, error)
}

// Load returns the cached value under key or calls loader once for all
// concurrent callers and caches its result. Loader errors are not cached.
func Load[T any](ctx context.Context, c Cache, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	if key == "" {
		return loader(ctx)
	}

	value, err := c.getOrLoad(ctx, key,
		func(ctx context.Context) (any, error) { return loader(ctx) },
		func(raw []byte) (any, error) {
			var out T
			if err := sonic.Unmarshal(raw, &out); err != nil {
				return nil, err
			}
			return out, nil
		},
	)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %q has type %T", key, value)
	}
	return typed, nil
}
