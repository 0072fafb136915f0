// Package view holds per-screen state containers: each owns a local
// copy of one collection, tracks loading/error state, applies
// optimistic local updates after successful writes, and ignores stale
// responses. A single shared cache keyed by (entity, parent id) stops
// independent views from re-fetching the same collection.
package view

import "sync"

type cacheKey struct {
	entity   string
	parentID string
}

// Cache is a read-through collection cache shared by all views.
// Entries are dropped on every successful mutation of the keyed
// collection; there is no TTL.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]any
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]any)}
}

func (c *Cache) get(entity, parentID string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[cacheKey{entity, parentID}]
	return v, ok
}

func (c *Cache) put(entity, parentID string, items any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{entity, parentID}] = items
}

// Invalidate drops the cached collection for one parent.
func (c *Cache) Invalidate(entity, parentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey{entity, parentID})
}
