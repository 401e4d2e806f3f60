package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// ErrCacheMiss marks a key that is absent from the cache. Callers distinguish
// it from infrastructure failures via errors.IsNotFound.
var ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

// Cache stores JSON-encoded values under a shared key prefix. Entry TTLs are
// jittered so a burst of fills does not expire in one wave, and concurrent
// fills for the same key are collapsed through a singleflight group.
type Cache struct {
	client     *Client
	logger     logging.Logger
	metrics    *prometheus.AppMetrics
	name       string
	prefix     string
	defaultTTL time.Duration
	jitter     func(time.Duration) time.Duration
	group      singleflight.Group
}

// CacheOption adjusts cache construction.
type CacheOption func(*Cache)

// WithName sets the label the cache reports metrics under.
func WithName(name string) CacheOption {
	return func(c *Cache) {
		if name != "" {
			c.name = name
		}
	}
}

// WithPrefix sets the key prefix, isolating this cache's keyspace.
func WithPrefix(prefix string) CacheOption {
	return func(c *Cache) { c.prefix = prefix }
}

// WithTTL sets the TTL applied when Set is called with a non-positive one.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithJitter replaces the TTL jitter function. Tests pin it to identity.
func WithJitter(fn func(time.Duration) time.Duration) CacheOption {
	return func(c *Cache) {
		if fn != nil {
			c.jitter = fn
		}
	}
}

// NewCache builds a cache on top of an established client.
func NewCache(client *Client, logger logging.Logger, metrics *prometheus.AppMetrics, opts ...CacheOption) *Cache {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Cache{
		client:     client,
		logger:     logger,
		metrics:    metrics,
		name:       "default",
		prefix:     "keyrank:",
		defaultTTL: 15 * time.Minute,
		jitter:     jitterTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// jitterTTL spreads expirations by +/- 10%.
func jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	spread := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(spread)
}

func (c *Cache) fullKey(key string) string {
	return c.prefix + key
}

// Get unmarshals the entry stored under key into dest. A missing key returns
// ErrCacheMiss; transport failures are wrapped as cache errors.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		prometheus.RecordCacheAccess(c.metrics, c.name, false)
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache get failed")
	}
	prometheus.RecordCacheAccess(c.metrics, c.name, true)
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cache entry unreadable")
	}
	return nil
}

// Set stores value under key with a jittered TTL. A non-positive ttl selects
// the cache default.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cache entry not serializable")
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, c.jitter(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache set failed")
	}
	return nil
}

// Delete removes the given keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = c.fullKey(k)
	}
	if err := c.client.Del(ctx, fullKeys...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
	}
	return nil
}

// DeleteByPrefix scans for keys under the cache prefix plus the given prefix
// and deletes them in batches. It returns the number of keys removed.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		deleted int64
		cursor  uint64
	)
	match := c.fullKey(prefix) + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "cache scan failed")
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
			}
			deleted += int64(len(keys))
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// GetOrSet returns the cached entry for key, or runs loader to produce it.
// Concurrent calls for the same key share one loader execution. A failed
// store after a successful load is logged and swallowed so the caller still
// gets the loaded value.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return err
	}

	value, err, _ := c.group.Do(c.fullKey(key), func() (interface{}, error) {
		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, loaded, ttl); setErr != nil {
			c.logger.Warn("cache fill store failed",
				logging.String("key", key),
				logging.Err(setErr),
			)
		}
		return loaded, nil
	})
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "loaded value not serializable")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "loaded value unreadable")
	}
	return nil
}
