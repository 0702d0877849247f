package fetchpipe

import (
	"container/list"
	"sync"
)

// Cache stores raw response bytes keyed by resource locator. Implementations
// must be safe for concurrent use; the cache is the only mutable state shared
// across in-flight pipeline calls.
type Cache interface {
	// Get returns the bytes stored under key. Absence is not an error.
	Get(key string) ([]byte, bool)
	// Set stores data under key, overwriting any prior value. A nil data
	// argument removes the entry.
	Set(key string, data []byte)
	// Remove deletes the entry and returns the prior value if one existed.
	Remove(key string) ([]byte, bool)
	// Reset atomically empties the cache.
	Reset()
}

// MemoryCache is a bounded in-memory LRU cache. It enforces an entry-count
// limit and a total-cost limit, where each entry's cost is its byte length.
// A limit of 0 means unbounded. Limits are mutable at any time; shrinking a
// limit evicts immediately, least recently used first.
type MemoryCache struct {
	mu         sync.Mutex
	name       string
	entries    map[string]*list.Element
	order      *list.List // front is most recently used
	totalCost  int
	countLimit int
	costLimit  int
}

type memoryCacheEntry struct {
	key  string
	data []byte
}

// NewMemoryCache creates an unbounded MemoryCache. The name is a fixed
// diagnostic identifier surfaced in logs and metrics.
func NewMemoryCache(name string) *MemoryCache {
	if name == "" {
		name = "fetchpipe.MemoryCache"
	}
	return &MemoryCache{
		name:    name,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Name returns the cache's diagnostic identifier.
func (c *MemoryCache) Name() string {
	return c.name
}

// Get returns the bytes stored under key and refreshes its recency.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*memoryCacheEntry).data, true
}

// Set stores data under key. Setting nil removes the entry. Insertion may
// evict older entries if either limit is now exceeded.
func (c *MemoryCache) Set(key string, data []byte) {
	if data == nil {
		c.Remove(key)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoryCacheEntry)
		c.totalCost += len(data) - len(entry.data)
		entry.data = data
		c.order.MoveToFront(elem)
	} else {
		elem := c.order.PushFront(&memoryCacheEntry{key: key, data: data})
		c.entries[key] = elem
		c.totalCost += len(data)
	}
	c.evictLocked()
}

// Remove deletes the entry and returns the prior value if one existed.
func (c *MemoryCache) Remove(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*memoryCacheEntry)
	c.removeLocked(elem, entry)
	return entry.data, true
}

// Reset atomically empties the cache.
func (c *MemoryCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.totalCost = 0
}

// Len returns the current entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TotalCost returns the summed byte length of all entries.
func (c *MemoryCache) TotalCost() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalCost
}

// CountLimit returns the maximum entry count, 0 meaning unbounded.
func (c *MemoryCache) CountLimit() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countLimit
}

// SetCountLimit sets the maximum entry count and evicts immediately if the
// cache now exceeds it. 0 means unbounded.
func (c *MemoryCache) SetCountLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	c.countLimit = n
	c.evictLocked()
}

// TotalCostLimit returns the maximum summed byte length, 0 meaning unbounded.
func (c *MemoryCache) TotalCostLimit() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.costLimit
}

// SetTotalCostLimit sets the maximum summed byte length and evicts immediately
// if the cache now exceeds it. 0 means unbounded.
func (c *MemoryCache) SetTotalCostLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	c.costLimit = n
	c.evictLocked()
}

func (c *MemoryCache) removeLocked(elem *list.Element, entry *memoryCacheEntry) {
	c.order.Remove(elem)
	delete(c.entries, entry.key)
	c.totalCost -= len(entry.data)
}

// evictLocked drops least-recently-used entries until both limits hold.
func (c *MemoryCache) evictLocked() {
	for (c.countLimit > 0 && len(c.entries) > c.countLimit) ||
		(c.costLimit > 0 && c.totalCost > c.costLimit) {
		back := c.order.Back()
		if back == nil {
			return
		}
		c.removeLocked(back, back.Value.(*memoryCacheEntry))
	}
}
