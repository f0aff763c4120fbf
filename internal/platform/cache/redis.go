package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RedisStore shares cached reads between the api and worker processes.
// Values are sonic-encoded under "<prefix>:<generation>:<key>"; Invalidate
// bumps the generation counter so older keys are never read again and expire
// with their TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	flight singleflight.Group
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// OpenRedis parses a redis:// URL and pings the server.
func OpenRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) generationKey() string {
	return s.prefix + ":generation"
}

func (s *RedisStore) Invalidate(ctx context.Context) error {
	if err := s.client.Incr(ctx, s.generationKey()).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}
	return nil
}

func (s *RedisStore) getOrLoad(ctx context.Context, key string, load func(context.Context) (any, error), decode func([]byte) (any, error)) (any, error) {
	generation, err := s.client.Get(ctx, s.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		// Redis is unavailable, serve straight from storage.
		return load(ctx)
	}
	fullKey := fmt.Sprintf("%s:%d:%s", s.prefix, generation, key)

	value, err, _ := s.flight.Do(fullKey, func() (any, error) {
		if raw, err := s.client.Get(ctx, fullKey).Bytes(); err == nil {
			if cached, err := decode(raw); err == nil {
				return cached, nil
			}
		}

		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := sonic.Marshal(loaded); err == nil {
			_ = s.client.Set(ctx, fullKey, raw, s.ttl).Err()
		}
		return loaded, nil
	})
	return value, err
}
