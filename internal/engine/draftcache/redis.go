package draftcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "draft:"

// RedisCache shares drafts across processes through Redis. SET-with-TTL gives
// the same expiry semantics as the in-memory backend.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, fingerprint string) (string, bool, error) {
	draft, err := c.client.Get(ctx, redisKeyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("draft cache get: %w", err)
	}
	return draft, true, nil
}

func (c *RedisCache) Put(ctx context.Context, fingerprint, draft string) error {
	if err := c.client.Set(ctx, redisKeyPrefix+fingerprint, draft, c.ttl).Err(); err != nil {
		return fmt.Errorf("draft cache put: %w", err)
	}
	return nil
}
