package cache

import (
	"testing"
	"time"
)

func TestTTLCache_GetSet(t *testing.T) {
	c := New()

	if _, ok := c.Get("k"); ok {
		t.Fatal("empty cache returned a value")
	}
	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("value missing after Set")
	}
	if got.(string) != "v" {
		t.Errorf("wrong value: %v", got)
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d / %d", hits, misses)
	}
}

func TestTTLCache_Expiry(t *testing.T) {
	current := time.Unix(1000, 0)
	c := NewWithClock(func() time.Time { return current })

	c.Set("dns", "facts", 30*time.Second)

	if _, ok := c.Get("dns"); !ok {
		t.Fatal("entry missing within TTL")
	}

	current = current.Add(29 * time.Second)
	if _, ok := c.Get("dns"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	current = current.Add(2 * time.Second)
	if _, ok := c.Get("dns"); ok {
		t.Fatal("entry survived past its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not evicted on access, len=%d", c.Len())
	}
}

func TestTTLCache_Overwrite(t *testing.T) {
	c := New()
	c.Set("k", "old", time.Minute)
	c.Set("k", "new", time.Minute)

	got, ok := c.Get("k")
	if !ok || got.(string) != "new" {
		t.Errorf("overwrite did not take: %v", got)
	}
	if c.Len() != 1 {
		t.Errorf("overwrite grew the cache: len=%d", c.Len())
	}
}

func TestTTLCache_Purge(t *testing.T) {
	current := time.Unix(1000, 0)
	c := NewWithClock(func() time.Time { return current })

	c.Set("short", 1, 10*time.Second)
	c.Set("long", 2, 10*time.Minute)

	current = current.Add(time.Minute)
	if removed := c.Purge(); removed != 1 {
		t.Errorf("expected 1 purged entry, got %d", removed)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 surviving entry, got %d", c.Len())
	}
}
