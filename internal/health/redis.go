package health

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisProbe checks the cache store by pinging it. Only liveness of the
// dependency is probed; its data plane is not touched.
type RedisProbe struct {
	name   string
	client *redis.Client
}

// NewRedisProbe creates a probe for the given cache client.
func NewRedisProbe(client *redis.Client) *RedisProbe {
	return &RedisProbe{name: "cache", client: client}
}

func (p *RedisProbe) Name() string { return p.name }

func (p *RedisProbe) Check(ctx context.Context) Result {
	start := time.Now()
	if err := p.client.Ping(ctx).Err(); err != nil {
		return Down(time.Since(start), err)
	}
	return Up(time.Since(start))
}
