// Package redis mirrors short-link click telemetry into Redis. The JSON
// file store stays the source of truth; everything here is best effort and
// the whole layer is absent when Redis is not configured.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultResolutionTTL bounds how long a cached code -> URL resolution
// lives without being refreshed by a create or resolve.
const DefaultResolutionTTL = 24 * time.Hour

// Cache exposes click counters and resolution caching on a Redis client.
type Cache struct {
	client *redis.Client
}

// NewCache wraps an established Redis client.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// CacheResolution stores a code -> long URL mapping.
func (c *Cache) CacheResolution(ctx context.Context, code, longURL string, ttl time.Duration) error {
	if err := c.client.Set(ctx, ResolveKey(code), longURL, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache resolution: %w", err)
	}
	return nil
}

// GetCachedResolution retrieves a cached resolution. A cache miss returns
// an empty string and no error.
func (c *Cache) GetCachedResolution(ctx context.Context, code string) (string, error) {
	longURL, err := c.client.Get(ctx, ResolveKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cached resolution: %w", err)
	}
	return longURL, nil
}

// IncrementClicks bumps the mirrored click counter for a code.
func (c *Cache) IncrementClicks(ctx context.Context, code string) error {
	if err := c.client.HIncrBy(ctx, KeyClicks, code, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment click counter: %w", err)
	}
	return nil
}

// SetClickCount overwrites the mirrored counter for a code. Used by the
// periodic mirror to reconcile against the authoritative store.
func (c *Cache) SetClickCount(ctx context.Context, code string, count int) error {
	if err := c.client.HSet(ctx, KeyClicks, code, count).Err(); err != nil {
		return fmt.Errorf("failed to set click counter: %w", err)
	}
	return nil
}

// Flush drops all mirrored counters and cached resolutions.
func (c *Cache) Flush(ctx context.Context) error {
	if err := c.client.Del(ctx, KeyClicks).Err(); err != nil {
		return fmt.Errorf("failed to delete click counters: %w", err)
	}

	iter := c.client.Scan(ctx, 0, KeyPrefixResolve+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete resolution key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush resolutions: %w", err)
	}
	return nil
}
