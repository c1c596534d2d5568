package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// Cache stores JSON values under a namespace. Bumping the namespace version orphans every key
// written before it, which is how writes invalidate the catalog. A nil *Cache misses every lookup.
type Cache struct {
	rdb    goredis.UniversalClient
	log    *logger.Logger
	prefix string
	ttl    time.Duration
}

func NewCache(rdb goredis.UniversalClient, log *logger.Logger, prefix string, ttl time.Duration) *Cache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Cache{rdb: rdb, log: log.With("service", "RedisCache"), prefix: prefix, ttl: ttl}
}

func (c *Cache) versionKey(namespace string) string {
	return key(c.prefix, "cache", namespace, "version")
}

func (c *Cache) entryKey(namespace string, version int64, k string) string {
	return key(c.prefix, "cache", namespace, "v"+strconv.FormatInt(version, 10), k)
}

// Version returns the current generation of namespace, 0 when it was never bumped.
func (c *Cache) Version(ctx context.Context, namespace string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	v, err := c.rdb.Get(ctx, c.versionKey(namespace)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return v, err
}

// Get decodes the cached value into dst and reports whether it was present.
func (c *Cache) Get(ctx context.Context, namespace, k string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}
	version, err := c.Version(ctx, namespace)
	if err != nil {
		return false, fmt.Errorf("cache version: %w", err)
	}
	raw, err := c.rdb.Get(ctx, c.entryKey(namespace, version, k)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// A payload from an older build; treat it as a miss.
		c.log.Warn("cache entry undecodable", "namespace", namespace, "error", err)
		return false, nil
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, namespace, k string, v any) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	version, err := c.Version(ctx, namespace)
	if err != nil {
		return fmt.Errorf("cache version: %w", err)
	}
	return c.rdb.Set(ctx, c.entryKey(namespace, version, k), raw, c.ttl).Err()
}

// Invalidate bumps the namespace version.
func (c *Cache) Invalidate(ctx context.Context, namespace string) error {
	if c == nil {
		return nil
	}
	return c.rdb.Incr(ctx, c.versionKey(namespace)).Err()
}
