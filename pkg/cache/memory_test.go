package cache

import (
	"testing"
	"time"

	"github.com/dmonteiro/curio/core"
)

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	session := &core.Session{ID: "s1", UserID: "u1", TokenHash: "h1"}

	if err := c.Set("h1", session); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get("h1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "s1" {
		t.Errorf("Get() = %+v, want session s1", got)
	}

	if err := c.Delete("h1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get("h1"); err != core.ErrCacheNotFound {
		t.Errorf("Get() after delete error = %v, want ErrCacheNotFound", err)
	}
}

func TestInMemoryCache_TTLExpiry(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Millisecond, MaxSize: 10})
	_ = c.Set("h1", &core.Session{ID: "s1"})

	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get("h1"); err != core.ErrCacheNotFound {
		t.Errorf("Get() after TTL error = %v, want ErrCacheNotFound", err)
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted, len = %d", c.Len())
	}
}

func TestInMemoryCache_EvictsWhenFull(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 2})
	_ = c.Set("h1", &core.Session{ID: "s1"})
	_ = c.Set("h2", &core.Session{ID: "s2"})
	_ = c.Set("h3", &core.Session{ID: "s3"})

	if c.Len() != 2 {
		t.Errorf("len = %d, want maxSize 2", c.Len())
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("evictions = %d, want 1", got)
	}
}

func TestInMemoryCache_Stats(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	_ = c.Set("h1", &core.Session{ID: "s1"})
	_, _ = c.Get("h1")
	_, _ = c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 set", stats)
	}
}
