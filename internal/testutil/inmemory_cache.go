package testutil

import (
	"context"
	"sync"
	"time"
)

// InMemoryCache is a byte cache for tests. TTLs are recorded, not enforced.
type InMemoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	TTLs map[string]time.Duration

	// GetErr, when set, is returned by Get.
	GetErr error
	Gets   int
}

// NewInMemoryCache returns an empty cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{data: make(map[string][]byte), TTLs: make(map[string]time.Duration)}
}

func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets++
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	val, ok := c.data[key]
	return val, ok, nil
}

func (c *InMemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = append([]byte(nil), value...)
	c.TTLs[key] = ttl
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
		delete(c.TTLs, key)
	}
	return nil
}

// Keys returns the number of cached entries.
func (c *InMemoryCache) Keys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
