package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func testRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(mr.Addr(), DefaultTTL)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_PutGetDelete(t *testing.T) {
	c := testRedisCache(t)
	ctx := context.Background()

	set := sampleSet()
	if err := c.Put(ctx, "player1", set); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := c.Get(ctx, "player1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a pending choice set")
	}
	if got.ID != set.ID {
		t.Errorf("id mismatch: %v != %v", got.ID, set.ID)
	}
	if got.Context.Target != "nijika" {
		t.Errorf("context target = %q", got.Context.Target)
	}

	if err := c.Delete(ctx, "player1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got, err = c.Get(ctx, "player1")
	if err != nil {
		t.Fatalf("get after delete failed: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestRedisCache_MissingPlayer(t *testing.T) {
	c := testRedisCache(t)
	got, err := c.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing player")
	}
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisCache(mr.Addr(), 1*time.Second)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Put(ctx, "player1", sampleSet()); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	got, err := c.Get(ctx, "player1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Error("expected entry to expire with the TTL")
	}
}
