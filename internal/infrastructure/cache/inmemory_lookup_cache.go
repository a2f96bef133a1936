package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/infrastructure/enrichment"
)

// InMemoryLookupCache is a process-local lookup cache for development and
// tests, where a Redis instance is not worth the trouble
type InMemoryLookupCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type inMemoryEntry struct {
	product   catalog.ExternalProduct
	expiresAt time.Time
}

// NewInMemoryLookupCache creates an in-memory lookup cache
func NewInMemoryLookupCache(ttl time.Duration) *InMemoryLookupCache {
	return &InMemoryLookupCache{
		entries: make(map[string]inMemoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a cached lookup result, (nil, nil) on a miss
func (c *InMemoryLookupCache) Get(ctx context.Context, code string) (*catalog.ExternalProduct, error) {
	c.mu.RLock()
	entry, ok := c.entries[code]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, code)
		c.mu.Unlock()
		return nil, nil
	}

	product := entry.product
	return &product, nil
}

// Set stores a lookup result with the configured TTL
func (c *InMemoryLookupCache) Set(ctx context.Context, code string, product *catalog.ExternalProduct) error {
	if product == nil {
		return nil
	}

	c.mu.Lock()
	c.entries[code] = inMemoryEntry{
		product:   *product,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
	return nil
}

var _ enrichment.LookupCache = (*InMemoryLookupCache)(nil)
