// Package cache provides the read-through cache used on catalog fetches.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores serialized values under namespaced keys with a TTL. Get
// returns "" for a missing or expired key, never an error for a miss.
type Cache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Key(operation, id string) string
}

type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a Cache backed by the Redis instance at addr.
func NewRedis(addr, prefix string) Cache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
	}
}

func (r *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCache) Key(operation, id string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, operation, id)
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is a process-local Cache for tests and runs without Redis.
type MemoryCache struct {
	mu      sync.Mutex
	prefix  string
	entries map[string]memoryEntry
}

// NewMemory returns an empty MemoryCache.
func NewMemory(prefix string) *MemoryCache {
	return &MemoryCache{prefix: prefix, entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expires: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expires) {
		delete(m.entries, key)
		return "", nil
	}
	return entry.value, nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryCache) Key(operation, id string) string {
	return fmt.Sprintf("%s:%s:%s", m.prefix, operation, id)
}
