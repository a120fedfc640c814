package access

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AuthzCache stores authorization decisions so hot read paths do not hit the
// relationship store on every request. Implementations must honor Delete as
// the invalidation hook: after a Delete the next Get misses and the caller
// recomputes from the authoritative store.
type AuthzCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

type memoryCacheEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryAuthzCache is an in-process AuthzCache. Suitable for single-instance
// deployments and tests.
type MemoryAuthzCache struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
}

// NewMemoryAuthzCache creates an empty in-memory cache.
func NewMemoryAuthzCache() *MemoryAuthzCache {
	return &MemoryAuthzCache{entries: make(map[string]memoryCacheEntry)}
}

func (c *MemoryAuthzCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

func (c *MemoryAuthzCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = memoryCacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *MemoryAuthzCache) Delete(ctx context.Context, keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
}

// RedisAuthzCache is an AuthzCache on a shared Redis instance, for multi-node
// deployments where invalidation must reach every replica.
type RedisAuthzCache struct {
	rdb *redis.Client
}

// NewRedisAuthzCache wraps an already-connected Redis client.
func NewRedisAuthzCache(rdb *redis.Client) *RedisAuthzCache {
	return &RedisAuthzCache{rdb: rdb}
}

func (c *RedisAuthzCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		// redis.Nil and transport errors alike: treat as a miss so the
		// caller falls back to the authoritative store.
		return "", false
	}
	return val, true
}

func (c *RedisAuthzCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	// Best effort; a failed Set only costs a future cache miss.
	c.rdb.Set(ctx, key, value, ttl)
}

func (c *RedisAuthzCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}
