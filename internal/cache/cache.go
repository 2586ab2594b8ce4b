package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/svclab/itemsvc/internal/config"
	"github.com/svclab/itemsvc/internal/observability"
)

// Cache is a prefixed JSON cache on the Redis store. A miss is not an
// error; callers that treat the cache as optional should degrade
// gracefully on real errors too.
type Cache struct {
	client     *redis.Client
	keyPrefix  string
	defaultTTL time.Duration
	metrics    *observability.Metrics
}

// New creates a cache client from configuration. The connection is not
// verified here; the health probe owns reachability reporting.
func New(cfg config.RedisConfig, metrics *observability.Metrics) (*Cache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	return &Cache{
		client:     redis.NewClient(opts),
		keyPrefix:  cfg.KeyPrefix,
		defaultTTL: cfg.CacheTTL,
		metrics:    metrics,
	}, nil
}

// Client exposes the underlying connection for the health probe.
func (c *Cache) Client() *redis.Client {
	return c.client
}

func (c *Cache) key(k string) string {
	return c.keyPrefix + ":" + k
}

// GetJSON reads a cached JSON value into dest. Returns false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.record("get", nil)
		return false, nil
	}
	if err != nil {
		c.record("get", err)
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	c.record("get", nil)

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores a JSON value under the default TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	err = c.client.Set(ctx, c.key(key), data, c.defaultTTL).Err()
	c.record("set", err)
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, c.key(key)).Err()
	c.record("delete", err)
	if err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) record(operation string, err error) {
	if c.metrics != nil {
		c.metrics.RecordCacheOp(operation, err)
	}
}
