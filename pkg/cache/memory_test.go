package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	type payload struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	if err := mc.Set(ctx, "k", payload{Name: "nav", Value: 105.5}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "nav" || got.Value != 105.5 {
		t.Fatalf("wrong value: %+v", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var got string
	if err := mc.Get(context.Background(), "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", 20*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(40 * time.Millisecond)

	var got string
	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestMemoryCacheDeleteAndExists(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", "1", time.Minute)
	_ = mc.Set(ctx, "b", "2", time.Minute)

	ok, err := mc.Exists(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("a should exist: %v %v", ok, err)
	}

	if err := mc.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, _ = mc.Exists(ctx, "a", "b")
	if ok {
		t.Fatalf("deleted keys should not exist")
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", "1", time.Minute)
	time.Sleep(2 * time.Millisecond)
	_ = mc.Set(ctx, "b", "2", time.Minute)
	time.Sleep(2 * time.Millisecond)

	// Touch a so b becomes the least recently used.
	var s string
	_ = mc.Get(ctx, "a", &s)
	time.Sleep(2 * time.Millisecond)

	_ = mc.Set(ctx, "c", "3", time.Minute)

	if ok, _ := mc.Exists(ctx, "b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if ok, _ := mc.Exists(ctx, "a"); !ok {
		t.Fatalf("a was touched and should survive")
	}
}

func TestMemoryCacheTryLock(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "lock", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first lock should succeed: %v %v", ok, err)
	}
	ok, _ = mc.TryLock(ctx, "lock", time.Minute)
	if ok {
		t.Fatalf("second lock should fail while held")
	}

	if err := mc.Unlock(ctx, "lock"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	ok, _ = mc.TryLock(ctx, "lock", time.Minute)
	if !ok {
		t.Fatalf("lock should be reacquirable after unlock")
	}
}
