package nutrition

import (
	"testing"
	"time"

	"menu-planner/internal/infrastructure/config"
)

func TestCache(t *testing.T) {
	t.Run("disabled cache is nil and never hits", func(t *testing.T) {
		c := NewCache(config.CacheConfig{Enabled: false})
		if c != nil {
			t.Fatal("NewCache() with caching disabled returned a cache")
		}
		c.Set("k", sampleTree(1, 1, 1))
		if _, ok := c.Get("k"); ok {
			t.Error("nil cache hit")
		}
		if c.Stats()["enabled"] != false {
			t.Error("nil cache reports enabled")
		}
	})

	t.Run("get returns a copy", func(t *testing.T) {
		c := NewCache(config.CacheConfig{Enabled: true, MaxSize: 4, TTL: time.Hour})
		defer c.Close()

		key := Key("recipe")
		c.Set(key, sampleTree(10, 1, 2))
		got, ok := c.Get(key)
		if !ok {
			t.Fatal("Get() missed a fresh entry")
		}
		*got.Calories.Total = 99

		again, _ := c.Get(key)
		if *again.Calories.Total != 10 {
			t.Errorf("cached value mutated through a returned tree: %v", *again.Calories.Total)
		}
	})

	t.Run("expired entries miss", func(t *testing.T) {
		c := NewCache(config.CacheConfig{Enabled: true, MaxSize: 4, TTL: time.Millisecond})
		defer c.Close()

		c.Set("k", sampleTree(1, 1, 1))
		time.Sleep(5 * time.Millisecond)
		if _, ok := c.Get("k"); ok {
			t.Error("Get() returned an expired entry")
		}
	})

	t.Run("evicts when full", func(t *testing.T) {
		c := NewCache(config.CacheConfig{Enabled: true, MaxSize: 2, TTL: time.Hour})
		defer c.Close()

		c.Set("a", sampleTree(1, 1, 1))
		c.Set("b", sampleTree(2, 2, 2))
		c.Get("a")
		c.Set("c", sampleTree(3, 3, 3))

		if _, ok := c.Get("b"); ok {
			t.Error("least used entry survived eviction")
		}
		if _, ok := c.Get("a"); !ok {
			t.Error("accessed entry was evicted")
		}
		if size := c.Stats()["size"]; size != 2 {
			t.Errorf("size = %v, want 2", size)
		}
	})

	t.Run("key is stable", func(t *testing.T) {
		if Key("x") != Key("x") || Key("x") == Key("y") {
			t.Error("Key() is not a stable hash")
		}
	})
}
