package cache

import (
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	// "a" was just used, so adding "c" evicts "b".
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("b survived eviction past capacity")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry still served")
	}
	if n := c.CleanExpired(); n != 0 {
		// Get already dropped it.
		t.Errorf("CleanExpired = %d, want 0 after lazy removal", n)
	}
}

func TestLRUCacheDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("owner-1|transactions", 1)
	c.Set("owner-1|accounts", 2)
	c.Set("owner-2|transactions", 3)

	if n := c.DeletePrefix("owner-1|"); n != 2 {
		t.Fatalf("DeletePrefix removed %d entries, want 2", n)
	}
	if _, ok := c.Get("owner-2|transactions"); !ok {
		t.Error("other owner's entry was removed")
	}
	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}
}
