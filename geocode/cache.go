package geocode

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"smartroad-be/models"
	"smartroad-be/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner    Geocoder
	searches *lruCache[[]models.Place]
	reverses *lruCache[models.Place]
	metrics  *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:    inner,
		searches: newLRUCache[[]models.Place](maxEntries),
		reverses: newLRUCache[models.Place](maxEntries),
		metrics:  metrics,
	}
}

func (c *CachedGeocoder) Search(ctx context.Context, query string, limit int) ([]models.Place, error) {
	key := fmt.Sprintf("%d|%s", limit, strings.ToLower(strings.TrimSpace(query)))
	if places, ok := c.searches.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("search", "hit").Inc()
		return slices.Clone(places), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("search", "miss").Inc()

	places, err := c.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	// Empty results are not cached. The cache owns its own copy of each slice.
	if len(places) > 0 {
		c.searches.put(key, slices.Clone(places))
	}
	return places, nil
}

func (c *CachedGeocoder) Reverse(ctx context.Context, p models.Position) (models.Place, error) {
	key := fmt.Sprintf("%.5f,%.5f", p.Lat(), p.Lng())
	if result, ok := c.reverses.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("reverse", "hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("reverse", "miss").Inc()

	result, err := c.inner.Reverse(ctx, p)
	if err != nil {
		return result, err
	}
	if result.DisplayName != "" {
		c.reverses.put(key, result)
	}
	return result, nil
}

// lruCache is a small thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
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

func (c *lruCache[V]) remove(e *entry[V]) {
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

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
