package ssmutils

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestNoCacheAlwaysMisses(t *testing.T) {
	var c NoCache
	c.Set("key", "value")
	if _, ok := c.Get("key"); ok {
		t.Fatal("NoCache returned a hit")
	}
}

func TestMapCacheOverwrite(t *testing.T) {
	c := NewMapCache()
	c.Set("key", "v1")
	c.Set("key", "v2")

	if got, _ := c.Get("key"); got != "v2" {
		t.Fatalf("Get = %q, want \"v2\"", got)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}

func TestMapCacheClear(t *testing.T) {
	c := NewMapCacheFromMap(map[string]string{"a": "1", "b": "2"})
	c.Clear()

	if c.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry survived Clear")
	}
}

func TestMapCacheUpdate(t *testing.T) {
	c := NewMapCache()
	c.Set("stale", "x")

	c.Update(func(m map[string]string) {
		delete(m, "stale")
		m["fresh"] = "y"
	})

	if _, ok := c.Get("stale"); ok {
		t.Fatal("deleted entry still present")
	}
	if got, _ := c.Get("fresh"); got != "y" {
		t.Fatalf("Get(fresh) = %q, want \"y\"", got)
	}
}

func TestMapCacheConcurrentAccess(t *testing.T) {
	c := NewMapCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := uuid.NewString()
			c.Set(key, "v")
			if got, ok := c.Get(key); !ok || got != "v" {
				t.Errorf("Get(%s) = %q, %v", key, got, ok)
			}
		}()
	}
	wg.Wait()

	if c.Len() != 16 {
		t.Fatalf("Len = %d, want 16", c.Len())
	}
}
