package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[uint64, []byte](4)
	c.Set(1, []byte("one"))

	val, ok := c.Get(1)
	if !ok || string(val) != "one" {
		t.Errorf("Get(1) = %q, %v; want \"one\", true", val, ok)
	}
	if _, ok := c.Get(2); ok {
		t.Error("Get(2) found a missing key")
	}

	c.Set(1, []byte("uno"))
	if val, _ := c.Get(1); string(val) != "uno" {
		t.Errorf("Get(1) after overwrite = %q, want \"uno\"", val)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](3)
	c.Set(1, 1)
	c.Set(2, 2)
	c.Set(3, 3)
	c.Get(1) // 2 is now the oldest
	c.Set(4, 4)

	if _, ok := c.Get(2); ok {
		t.Error("entry 2 should have been evicted")
	}
	for _, k := range []int{1, 3, 4} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("entry %d should still be cached", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 || s.Len != 3 {
		t.Errorf("Stats() = %+v, want 1 eviction and 3 entries", s)
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	calls := 0
	create := func() (int, error) {
		calls++
		return 100, nil
	}

	for range 3 {
		v, err := c.GetOrCreate("k", create)
		if err != nil || v != 100 {
			t.Fatalf("GetOrCreate = %d, %v; want 100, nil", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrCreate("bad", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrCreate error = %v, want %v", err, boom)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed create should not be cached")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Error("second Delete(a) = true, want false")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	// The list must still work after Clear.
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) after Clear = %d, %v", v, ok)
	}
}

func TestCacheStatsHitRate(t *testing.T) {
	c := New[int, int](2)
	c.Set(1, 1)
	c.Get(1)
	c.Get(1)
	c.Get(1)
	c.Get(9)

	s := c.Stats()
	if s.Hits != 3 || s.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 3/1", s.Hits, s.Misses)
	}
	if s.HitRate != 0.75 {
		t.Errorf("HitRate = %v, want 0.75", s.HitRate)
	}
	if New[int, int](0).Stats().Capacity != 1 {
		t.Error("capacity below 1 should become 1")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[string, int](50)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := strconv.Itoa((g*31 + i) % 80)
				c.Set(key, i)
				c.Get(key)
				_, _ = c.GetOrCreate(key, func() (int, error) { return i, nil })
			}
		}()
	}
	wg.Wait()
	if c.Len() > 50 {
		t.Errorf("Len() = %d exceeds capacity 50", c.Len())
	}
}
