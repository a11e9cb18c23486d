package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrDisabled = errors.New("redis disabled")

// Cache stores JSON snapshots under namespaced keys. A Cache built on a nil
// client misses every lookup and drops every write.
type Cache struct {
	client *Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(client *Client, prefix string, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With("component", "cache", "prefix", prefix),
	}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil && c.client.Client != nil
}

func (c *Cache) Key(parts ...any) string {
	key := c.prefix
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

// Get decodes the value stored at key into dest and reports whether it was found.
// Cache failures are logged and reported as misses.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.enabled() {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("Cache miss", "key", key)
		return false
	}
	if err != nil {
		c.logger.Warn("Cache read failed", "key", key, "error", err)
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Cache entry is not valid JSON", "key", key, "error", err)
		return false
	}

	c.logger.Debug("Cache hit", "key", key)
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value any) {
	if !c.enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

// Delete removes the given keys
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Cache delete failed", "keys", keys, "error", err)
	}
}

// DeletePattern removes every key matching the glob pattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) {
	if !c.enabled() {
		return
	}

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Cache scan failed", "pattern", pattern, "error", err)
		return
	}
	c.Delete(ctx, keys...)
}
