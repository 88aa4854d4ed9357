package inat

import (
	"context"
	"sync"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/observability"
)

// CachedFinder wraps a PhotoFinder with an in-memory LRU cache. Species
// photos change rarely and the taxa API is rate limited, so every name is
// looked up at most once per cache lifetime.
type CachedFinder struct {
	inner   domain.PhotoFinder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedFinder creates a cache decorator around a photo finder.
func NewCachedFinder(inner domain.PhotoFinder, maxEntries int, metrics *observability.Metrics) *CachedFinder {
	return &CachedFinder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedFinder) FindPhoto(ctx context.Context, scientificName string) (domain.PhotoResult, error) {
	if result, ok := c.cache.get(scientificName); ok {
		c.metrics.PhotoCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.PhotoCache.WithLabelValues("miss").Inc()

	result, err := c.inner.FindPhoto(ctx, scientificName)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result.URL != "" {
		c.cache.put(scientificName, result)
	}
	return result, nil
}

// lruCache is a simple thread-safe LRU cache for PhotoResults.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.PhotoResult
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.PhotoResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.PhotoResult{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.PhotoResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
