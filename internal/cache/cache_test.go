package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/svclab/itemsvc/internal/config"
	"github.com/svclab/itemsvc/internal/observability"
)

// setupCacheTest starts a miniredis instance and returns a cache backed
// by it plus a cleanup function.
func setupCacheTest(t *testing.T) (*Cache, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	cfg := config.RedisConfig{
		URL:         "redis://" + mr.Addr(),
		PoolSize:    5,
		DialTimeout: time.Second,
		CacheTTL:    time.Minute,
		KeyPrefix:   "cache",
	}

	c, err := New(cfg, observability.NewMetrics())
	if err != nil {
		mr.Close()
		t.Fatalf("failed to create cache: %v", err)
	}

	cleanup := func() {
		_ = c.Close()
		mr.Close()
	}
	return c, mr, cleanup
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(config.RedisConfig{URL: "invalid://url"}, nil)
	if err == nil {
		t.Fatal("expected error for invalid redis URL")
	}
}

func TestCache_SetGetJSON(t *testing.T) {
	c, mr, cleanup := setupCacheTest(t)
	defer cleanup()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	ctx := context.Background()
	if err := c.SetJSON(ctx, "items:list", payload{Name: "widgets", Count: 3}); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	// Keys are prefixed.
	if !mr.Exists("cache:items:list") {
		t.Error("expected prefixed key cache:items:list in store")
	}

	var got payload
	hit, err := c.GetJSON(ctx, "items:list", &got)
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got.Name != "widgets" || got.Count != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestCache_GetJSON_Miss(t *testing.T) {
	c, _, cleanup := setupCacheTest(t)
	defer cleanup()

	var dest map[string]any
	hit, err := c.GetJSON(context.Background(), "absent", &dest)
	if err != nil {
		t.Fatalf("GetJSON() on miss error = %v", err)
	}
	if hit {
		t.Error("expected miss, got hit")
	}
}

func TestCache_Delete(t *testing.T) {
	c, mr, cleanup := setupCacheTest(t)
	defer cleanup()

	ctx := context.Background()
	if err := c.SetJSON(ctx, "items:list", []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "items:list"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if mr.Exists("cache:items:list") {
		t.Error("key still present after Delete")
	}

	// Deleting an absent key is fine.
	if err := c.Delete(ctx, "items:list"); err != nil {
		t.Errorf("Delete() of absent key error = %v", err)
	}
}

func TestCache_SetJSON_TTL(t *testing.T) {
	c, mr, cleanup := setupCacheTest(t)
	defer cleanup()

	if err := c.SetJSON(context.Background(), "items:list", []string{"a"}); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Minute)

	var dest []string
	hit, err := c.GetJSON(context.Background(), "items:list", &dest)
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if hit {
		t.Error("expected entry to expire after TTL")
	}
}
