package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	blogserrors "ticketbooking/internal/blogs/errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blogs:"

// Cache stores JSON encoded values with a fixed TTL. Get returns ErrCacheMiss
// when the key is absent.
type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any) error
}

func ListKey() string {
	return keyPrefix + "list"
}

func SlugKey(slug string) string {
	return keyPrefix + "slug:" + slug
}

// New returns a Redis cache, or one that always misses when client is nil.
func New(client *redis.Client, ttl time.Duration) Cache {
	if client == nil || ttl <= 0 {
		return noopCache{}
	}
	return &redisCache{client: client, ttl: ttl}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Get(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return blogserrors.ErrCacheMiss
		}
		return fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, any) error { return blogserrors.ErrCacheMiss }

func (noopCache) Set(context.Context, string, any) error { return nil }
