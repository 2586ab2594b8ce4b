package config

import (
	"fmt"
	"strings"
	"time"
)

// RedisConfig contains cache store configuration
type RedisConfig struct {
	URL         string        `json:"url" yaml:"url"`
	PoolSize    int           `json:"pool_size" yaml:"pool_size"`
	DialTimeout time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	CacheTTL    time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	KeyPrefix   string        `json:"key_prefix" yaml:"key_prefix"`
}

// DefaultRedisConfig returns default cache store configuration
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		URL:         "redis://localhost:6379/0",
		PoolSize:    10,
		DialTimeout: 5 * time.Second,
		CacheTTL:    time.Hour,
		KeyPrefix:   "cache",
	}
}

// Validate validates the cache store configuration
func (r *RedisConfig) Validate() error {
	if r.URL == "" {
		return fmt.Errorf("url cannot be empty")
	}
	if !strings.HasPrefix(r.URL, "redis://") && !strings.HasPrefix(r.URL, "rediss://") {
		return fmt.Errorf("url must start with redis:// or rediss://")
	}
	if r.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be positive")
	}
	if r.DialTimeout <= 0 {
		return fmt.Errorf("dial_timeout must be positive")
	}
	if r.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}
	return nil
}
