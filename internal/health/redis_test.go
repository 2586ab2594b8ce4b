package health

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestRedisProbe_Up(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	probe := NewRedisProbe(client)
	if probe.Name() != "cache" {
		t.Errorf("Name() = %q, want cache", probe.Name())
	}

	result := probe.Check(context.Background())
	if result.Status != StatusUp {
		t.Errorf("Status = %s, want UP (err=%s)", result.Status, result.Err)
	}
	if result.Latency < 0 {
		t.Errorf("Latency = %v, want non-negative", result.Latency)
	}
}

func TestRedisProbe_Down(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = client.Close() }()

	result := probeViaAggregator(t, client)
	if result.Status != StatusDown {
		t.Errorf("Status = %s, want DOWN", result.Status)
	}
	if result.Err == "" {
		t.Error("DOWN result should carry the connection error")
	}
}

// probeViaAggregator runs the redis probe the way the readiness
// endpoint does, through the aggregator's deadline enforcement.
func probeViaAggregator(t *testing.T, client *redis.Client) Result {
	t.Helper()

	agg := NewAggregator(AggregatorConfig{
		ProbeTimeout:    500 * time.Millisecond,
		ReadinessMargin: 100 * time.Millisecond,
	})
	agg.Register(NewRedisProbe(client))

	verdict := agg.Readiness(context.Background())
	if len(verdict.Components) != 1 {
		t.Fatalf("got %d components, want 1", len(verdict.Components))
	}
	return verdict.Components[0]
}
