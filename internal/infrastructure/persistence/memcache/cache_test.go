package memcache

import (
	"context"
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := New(0)
	ctx := context.Background()

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("Get(missing) hit")
	}
	_ = c.Set(ctx, "k", "v1")
	_ = c.Set(ctx, "k", "v2")
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || got != "v2" {
		t.Fatalf("Get() = %q, %v, %v", got, ok, err)
	}
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(time.Minute)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v")
	now = now.Add(59 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("entry expired early")
	}
	now = now.Add(time.Second)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("entry did not expire")
	}
}
