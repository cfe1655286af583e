package cache

import "sync"

// MemoryCache keeps entries in process memory
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	stats   counters
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Entry)}
}

// Get implements Backend
func (c *MemoryCache) Get(source, identity, langPair string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[Key(source, identity, langPair)]
	c.mu.RUnlock()

	hit := ok && entry.Valid(source)
	c.stats.record(hit)
	if !hit {
		return "", false
	}
	return entry.Translation, true
}

// Set implements Backend
func (c *MemoryCache) Set(source, translation, identity, langPair string) error {
	entry := NewEntry(source, translation, identity, langPair)

	c.mu.Lock()
	c.entries[Key(source, identity, langPair)] = entry
	c.mu.Unlock()
	return nil
}

// Entries counts the stored entries
func (c *MemoryCache) Entries() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

// Clear implements Backend
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.stats.reset()
	return nil
}

// Stats implements Backend. The size counts source and translation bytes.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	var size int64
	for _, e := range c.entries {
		size += int64(len(e.Source) + len(e.Translation))
	}
	c.mu.RUnlock()

	return c.stats.snapshot(size)
}

