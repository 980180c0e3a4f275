package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "posts:public"

// Cache keeps the public post listing in Redis. The public pages are the
// read-heavy path; admin writes invalidate the entry.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a listing cache. A nil client disables caching.
func NewCache(redisClient *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{redis: redisClient, ttl: ttl}
}

// Get returns the cached listing, or ok=false on miss or disabled cache.
func (c *Cache) Get(ctx context.Context) ([]*Post, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var posts []*Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, false
	}
	return posts, true
}

// Set stores the listing.
func (c *Cache) Set(ctx context.Context, posts []*Post) error {
	if c == nil || c.redis == nil {
		return nil
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("posts: encode cache entry: %w", err)
	}
	if err := c.redis.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("posts: set cache entry: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing after a write.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.redis == nil {
		return nil
	}
	if err := c.redis.Del(ctx, cacheKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("posts: invalidate cache: %w", err)
	}
	return nil
}
