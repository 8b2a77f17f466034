package odoo

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TTLs per resource family. Directory data moves slowly, task boards move
// fast, computed reports sit in between.
const (
	TTLEmployees = time.Hour
	TTLTasks     = 5 * time.Minute
	TTLReports   = 15 * time.Minute
)

const cachePrefix = "ailigent"

// Cache is a JSON read-through cache in front of the ERP. Concurrent misses
// on the same key collapse into a single fill, and cache trouble never fails
// a read: the fill result is served regardless.
type Cache struct {
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

func NewCache(rdb *redis.Client, logger ...*zap.Logger) *Cache {
	l := zap.L().Named("odoo.cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Cache{rdb: rdb, logger: l}
}

// Key builds a cache key under the module prefix.
func Key(parts ...string) string {
	return cachePrefix + ":" + strings.Join(parts, ":")
}

// QueryKey builds a key for a parameterized query by hashing its arguments,
// so equal queries share an entry without unbounded key growth.
func QueryKey(resource string, query any) string {
	raw, err := json.Marshal(query)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", query))
	}
	h := fnv.New64a()
	h.Write(raw)
	return Key(resource, fmt.Sprintf("%x", h.Sum64()))
}

// GetOrFill returns the cached value for key into out, calling fill on a
// miss and storing the result for ttl. fill runs at most once per key across
// concurrent callers.
func (c *Cache) GetOrFill(ctx context.Context, key string, ttl time.Duration, out any, fill func(ctx context.Context) (any, error)) error {
	if raw, ok := c.lookup(ctx, key); ok {
		if err := json.Unmarshal(raw, out); err == nil {
			return nil
		}
		// Stale or corrupt payload, fall through to refill.
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if raw, ok := c.lookup(ctx, key); ok {
			return raw, nil
		}
		value, err := fill(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
			c.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.([]byte), out)
}

func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return raw, true
}

// Invalidate removes every key matching the glob pattern.
func (c *Cache) Invalidate(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.rdb.Del(ctx, keys...).Err()
	}
	return nil
}

// InvalidateResource drops every cached entry for one resource family,
// e.g. after a task mutation.
func (c *Cache) InvalidateResource(ctx context.Context, resource string) error {
	return c.Invalidate(ctx, Key(resource)+":*")
}
