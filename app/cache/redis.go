package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rendered API responses in Redis. A nil *Cache is valid and
// behaves as a cache miss on every call, so Redis stays optional. The TTL
// matches the scheduler interval, so cached listings never outlive a scrape
// cycle by much.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr string, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr, "ttl", ttl.String())

	return &Cache{client: client, ttl: ttl}, nil
}

// GetResponse returns a cached response payload, or a miss when the cache is
// disabled, the key is absent, or Redis is unreachable.
func (c *Cache) GetResponse(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("Cache read failed", "key", key, "error", err)
		return nil, false
	}
	return data, true
}

// SetResponse stores a response payload. Failures are logged and swallowed,
// the cache never blocks a response.
func (c *Cache) SetResponse(ctx context.Context, key string, data []byte) {
	if c == nil {
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops every cached response. Called after scrapes and refilters
// change what the listing endpoints would return.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, "articles:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Warn("Cache invalidation failed", "key", iter.Val(), "error", err)
			return
		}
	}
	if err := iter.Err(); err != nil {
		slog.Warn("Cache scan failed", "error", err)
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// ResponseKey derives a stable cache key from query parameters.
func ResponseKey(sourceName string, limit int) string {
	hash := sha256.Sum256(fmt.Appendf(nil, "%s|%d", sourceName, limit))
	return fmt.Sprintf("articles:%x", hash[:8])
}
