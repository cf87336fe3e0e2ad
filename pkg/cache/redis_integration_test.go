//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("TOOLCATALOG_REDIS_ADDR")
	if addr == "" {
		t.Skip("TOOLCATALOG_REDIS_ADDR not set, skipping integration test")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr, WithRedisPrefix("toolcatalog-test:"))
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(got) != "v" {
		t.Fatalf("Get() = %q, %v, %v", got, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("key still present after Delete")
	}
}
