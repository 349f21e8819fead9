// Package cache is the short-lived result cache for classification,
// extraction and analytics payloads. Values are stored JSON-serialized in a
// TTL store; an auxiliary key index supports substring-based bulk
// invalidation. The index and the store must never diverge: every removal
// path (explicit delete, TTL expiry, pattern sweep) runs through the store's
// eviction callback, which also drops the key from the index.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Default TTLs by key prefix, applied when the caller passes ttl <= 0.
const (
	userTTL      = 30 * time.Minute
	documentTTL  = 15 * time.Minute
	analyticsTTL = 5 * time.Minute
	fallbackTTL  = 10 * time.Minute

	cleanupInterval = time.Minute
)

type Cache struct {
	store *gocache.Cache
	log   *slog.Logger

	mu   sync.Mutex
	keys map[string]struct{}
}

func New(log *slog.Logger) *Cache {
	return newCache(log, cleanupInterval)
}

// newCache takes the janitor interval so tests can drive the TTL-expiry
// removal path without waiting out the production interval.
func newCache(log *slog.Logger, cleanup time.Duration) *Cache {
	if log == nil {
		log = slog.Default()
	}
	c := &Cache{
		log:  log,
		keys: make(map[string]struct{}),
	}
	c.store = gocache.New(fallbackTTL, cleanup)
	c.store.OnEvicted(func(key string, _ any) {
		c.mu.Lock()
		delete(c.keys, key)
		c.mu.Unlock()
	})
	return c
}

// Set serializes value and stores it under key. Serialization failures are
// swallowed and logged; the surrounding request must never fail on a cache
// write.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache set skipped", "key", key, "error", err)
		return
	}
	if ttl <= 0 {
		ttl = DefaultTTL(key)
	}

	c.mu.Lock()
	c.keys[key] = struct{}{}
	c.mu.Unlock()
	c.store.Set(key, payload, ttl)
}

// Get deserializes the cached payload into out and reports a hit. Read or
// decode errors degrade to a miss.
func (c *Cache) Get(key string, out any) bool {
	raw, found := c.store.Get(key)
	if !found {
		return false
	}
	payload, ok := raw.([]byte)
	if !ok {
		c.log.Warn("cache entry has unexpected payload type, dropping", "key", key)
		c.Remove(key)
		return false
	}
	if out == nil {
		return true
	}
	if err := json.Unmarshal(payload, out); err != nil {
		c.log.Warn("cache get treated as miss", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) Remove(key string) {
	// Delete fires the eviction callback, which maintains the index.
	c.store.Delete(key)
}

// RemoveByPattern deletes every live entry whose key contains substring.
func (c *Cache) RemoveByPattern(substring string) {
	c.mu.Lock()
	matched := make([]string, 0)
	for key := range c.keys {
		if strings.Contains(key, substring) {
			matched = append(matched, key)
		}
	}
	c.mu.Unlock()

	for _, key := range matched {
		c.store.Delete(key)
	}
}

// GetOrSet returns the cached value through out on a hit. On a miss (or any
// cache read error, which is treated as a miss) it invokes produce; a
// non-nil produced value is cached, and a producer error propagates to the
// caller unchanged. On the miss path the producer's return value is not
// copied into out — callers capture it from the closure.
func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, out any, produce func(context.Context) (any, error)) error {
	if c.Get(key, out) {
		return nil
	}

	value, err := produce(ctx)
	if err != nil {
		return err
	}
	if value == nil {
		return nil
	}
	c.Set(key, value, ttl)
	return nil
}

// DefaultTTL resolves the expiration for a key from its prefix taxonomy.
func DefaultTTL(key string) time.Duration {
	switch {
	case strings.HasPrefix(key, "user:"):
		return userTTL
	case strings.HasPrefix(key, "document:"):
		return documentTTL
	case strings.HasPrefix(key, "analytics:"):
		return analyticsTTL
	default:
		return fallbackTTL
	}
}

// Keys returns a snapshot of the live key index, for diagnostics and tests.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.keys))
	for key := range c.keys {
		out = append(out, key)
	}
	return out
}
