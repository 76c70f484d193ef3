package mocks

import (
	"sync"
	"time"

	"github.com/yatrapay/yatrapay/internal/cache"
)

// MockCache is an in-memory Store for tests; expirations are ignored.
type MockCache struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (c *MockCache) Set(key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *MockCache) Get(key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	if !ok {
		return "", cache.Nil
	}
	return value, nil
}

func (c *MockCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}
