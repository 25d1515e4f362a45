// Package cache provides the process-wide query cache on Redis. Cached
// query results are not authoritative: mutations invalidate the keys
// they affect and the next read re-executes the backend query.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis at addr and returns the client, or nil if
// Redis is unreachable. The application keeps working without a cache;
// every read then goes straight to the backend.
func InitRedis(addr string) *redis.Client {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		return nil
	}
	log.Println("Redis connected successfully")
	return client
}

// Cache wraps a Redis client with JSON get/set and invalidation. A nil
// underlying client turns every lookup into a miss and every write into
// a no-op.
type Cache struct {
	rdb *redis.Client
	log *slog.Logger
}

// New creates a Cache over rdb, which may be nil.
func New(rdb *redis.Client, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{rdb: rdb, log: logger}
}

// GetJSON loads the cached value at key into dest and reports whether
// the key was present. Cache errors are logged and treated as misses.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c.rdb == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON stores value at key with the given TTL. Failures are logged
// and otherwise ignored; a missed write only costs a future refetch.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops the given keys so the next read refetches.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c.rdb == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}
