package cache

import "time"

// LayeredCache checks a fast cache before a slow one and promotes slow hits
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache combines a memory and a disk layer
func NewLayeredCache(memory, disk Cache) *LayeredCache {
	return &LayeredCache{
		memory: memory,
		disk:   disk,
	}
}

// Get retrieves a value (checks memory first, then disk)
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if val, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
