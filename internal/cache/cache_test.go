// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration, capacity int) *Cache {
	t.Helper()
	c := New("test", ttl, capacity)
	t.Cleanup(c.Close)
	return c
}

func TestCacheBasicOperations(t *testing.T) {
	c := newTestCache(t, time.Minute, 10)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Fatal("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists := c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.TotalKeys != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if rate := c.HitRate(); rate != 50 {
		t.Errorf("HitRate() = %v, want 50", rate)
	}
}

func TestCacheExpiration(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond, 10)

	c.Set("key1", "value1")
	if _, exists := c.Get("key1"); !exists {
		t.Fatal("Expected key1 to exist immediately after set")
	}

	time.Sleep(100 * time.Millisecond)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry still stored, Len() = %d", c.Len())
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := newTestCache(t, time.Minute, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // b is now least recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("Expected b to be evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("Expected %s to remain", k)
		}
	}
	if c.GetStats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", c.GetStats().Evictions)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := newTestCache(t, time.Minute, 10)

	c.Set("key1", "value1")
	c.Delete("key1")
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}
	c.Delete("missing")

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}
	if n := c.Clear(); n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear", c.Len())
	}

	// The list must still be usable after Clear.
	c.Set("again", 1)
	if _, ok := c.Get("again"); !ok {
		t.Error("Expected entry set after Clear to exist")
	}
}

func TestCacheGetOrLoad(t *testing.T) {
	c := newTestCache(t, time.Minute, 10)

	var calls atomic.Int32
	release := make(chan struct{})
	load := func() (interface{}, error) {
		calls.Add(1)
		<-release
		return "computed", nil
	}

	var wg sync.WaitGroup
	results := make([]interface{}, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := c.GetOrLoad("view", load)
			if err != nil {
				t.Errorf("GetOrLoad: %v", err)
			}
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("load called %d times, want 1", calls.Load())
	}
	for i, v := range results {
		if v != "computed" {
			t.Errorf("result %d = %v", i, v)
		}
	}

	v, cached, err := c.GetOrLoad("view", load)
	if err != nil || !cached || v != "computed" {
		t.Errorf("second GetOrLoad = (%v, %v, %v)", v, cached, err)
	}
}

func TestCacheGetOrLoadError(t *testing.T) {
	c := newTestCache(t, time.Minute, 10)

	boom := errors.New("boom")
	_, cached, err := c.GetOrLoad("k", func() (interface{}, error) { return nil, boom })
	if !errors.Is(err, boom) || cached {
		t.Errorf("got (%v, %v), want boom", cached, err)
	}
	if c.Len() != 0 {
		t.Error("failed load must not be cached")
	}
}

func TestCacheCleanup(t *testing.T) {
	c := newTestCache(t, time.Minute, 10)

	c.SetWithTTL("short", 1, time.Millisecond)
	c.Set("long", 2)
	time.Sleep(5 * time.Millisecond)
	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("Len() = %d after cleanup, want 1", c.Len())
	}
	if c.GetStats().LastCleanup.IsZero() {
		t.Error("LastCleanup not recorded")
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Cluster    string
		Search     string
		Generation uint64
	}

	k1 := GenerateKey("summary", params{"Regular Customer", "", 1})
	k2 := GenerateKey("summary", params{"Regular Customer", "", 1})
	k3 := GenerateKey("summary", params{"Regular Customer", "", 2})
	k4 := GenerateKey("scatter", params{"Regular Customer", "", 1})

	if k1 != k2 {
		t.Error("identical parameters must give identical keys")
	}
	if k1 == k3 {
		t.Error("generation must change the key")
	}
	if k1 == k4 {
		t.Error("method must change the key")
	}
}
