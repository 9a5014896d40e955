package nutrition

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Cache memoizes computed nutrition trees by a hash of their inputs.
// A nil *Cache is valid and never hits.
type Cache struct {
	cfg   config.CacheConfig
	mu    sync.Mutex
	store map[string]cacheEntry
	stats cacheStats
	done  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	tree        Tree
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewCache returns nil when caching is disabled.
func NewCache(cfg config.CacheConfig) *Cache {
	if !cfg.Enabled {
		common.LogInfo("Nutrition cache disabled")
		return nil
	}

	c := &Cache{
		cfg:   cfg,
		store: make(map[string]cacheEntry),
		done:  make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go c.startCleanup()
	}

	common.LogInfo("Nutrition cache initialized",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return c
}

// Key hashes an input fingerprint into a cache key.
func Key(fingerprint string) string {
	hash := sha256.Sum256([]byte(fingerprint))
	return "nutrition:" + hex.EncodeToString(hash[:])
}

// Get returns a copy of the cached tree for key.
func (c *Cache) Get(key string) (Tree, bool) {
	if c == nil {
		return Tree{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store[key]
	if !ok {
		c.stats.misses++
		common.LogCacheMiss("nutrition", key)
		return Tree{}, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.store, key)
		c.stats.evictions++
		c.stats.misses++
		common.LogCacheMiss("nutrition", key)
		return Tree{}, false
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	c.store[key] = entry
	c.stats.hits++
	common.LogCacheHit("nutrition", key)
	return entry.tree.Clone(), true
}

// Set stores a copy of tree under key, evicting expired and then least used
// entries when full.
func (c *Cache) Set(key string, tree Tree) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.cfg.MaxSize {
		c.cleanup()
		for len(c.store) > 0 && len(c.store) >= c.cfg.MaxSize {
			c.evictLRU()
		}
	}

	now := time.Now()
	c.store[key] = cacheEntry{
		tree:       tree.Clone(),
		expiresAt:  now.Add(c.cfg.TTL),
		createdAt:  now,
		lastAccess: now,
	}
}

func (c *Cache) startCleanup() {
	ticker := time.NewTicker(c.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.cleanup()
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

// cleanup drops expired entries. Caller holds mu.
func (c *Cache) cleanup() int {
	now := time.Now()
	count := 0
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			count++
			c.stats.evictions++
		}
	}
	if count > 0 {
		common.LogDebug("Cleaned up expired nutrition entries",
			zap.Int("count", count),
			zap.Int("remaining_size", len(c.store)),
		)
	}
	return count
}

// evictLRU drops the least accessed, then least recently used, entry.
// Caller holds mu.
func (c *Cache) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range c.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(c.store, oldestKey)
		c.stats.evictions++
	}
}

// Stats reports cache counters for the health endpoint.
func (c *Cache) Stats() map[string]interface{} {
	if c == nil {
		return map[string]interface{}{"enabled": false}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ratio := 0.0
	if total := c.stats.hits + c.stats.misses; total > 0 {
		ratio = float64(c.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"enabled":   true,
		"size":      len(c.store),
		"max_size":  c.cfg.MaxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
		"hit_ratio": ratio,
	}
}

// Close stops the cleanup loop and empties the cache.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	c.once.Do(func() { close(c.done) })

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry)
	common.LogInfo("Nutrition cache closed",
		zap.Int64("hits", c.stats.hits),
		zap.Int64("misses", c.stats.misses),
		zap.Int64("evictions", c.stats.evictions),
	)
	return nil
}
