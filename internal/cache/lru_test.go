package cache

import (
	"sync"
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[int64, string](2, time.Minute)

	if _, ok := c.Get(1); ok {
		t.Fatal("empty cache should miss")
	}
	c.Set(1, "one")
	c.Set(2, "two")
	if v, ok := c.Get(1); !ok || v != "one" {
		t.Fatalf("Get(1) = %q, %v", v, ok)
	}

	// 2 is now least recently used and gets evicted.
	c.Set(3, "three")
	if _, ok := c.Get(2); ok {
		t.Error("expected 2 to be evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}

	c.Set(1, "uno")
	if v, _ := c.Get(1); v != "uno" {
		t.Errorf("overwrite: got %q", v)
	}

	c.Delete(1)
	if _, ok := c.Get(1); ok {
		t.Error("deleted key should miss")
	}

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 3 {
		t.Errorf("stats = %+v", st)
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache[string, int](10, time.Second)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)
	now = now.Add(2 * time.Second)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should miss")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("fresh entry: %d, %v", v, ok)
	}
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := NewLRUCache[int, int](50, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set(base*1000+j, j)
				c.Get(base*1000 + j/2)
			}
		}(i)
	}
	wg.Wait()
	if c.Size() > 50 {
		t.Errorf("Size() = %d exceeds max", c.Size())
	}
}

func TestManager(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int, int](10, time.Second)
	c.now = func() time.Time { return now }
	c.Set(1, 1)
	now = now.Add(time.Minute)

	m := NewManager()
	m.Register("numbers", c)
	got := m.CleanAll()
	if got["numbers"] != 1 {
		t.Errorf("CleanAll() = %v", got)
	}

	m.StartCleanup(10 * time.Millisecond)
	m.Stop()
	m.Stop()
}
