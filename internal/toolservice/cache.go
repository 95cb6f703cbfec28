package toolservice

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long derived results stay valid.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry[V any] struct {
	value   V
	created time.Time
}

// ttlCache holds derived results. Expired entries are evicted lazily on
// lookup; there is no background sweep. Every clear starts a new
// generation, and values computed under an older one are never stored.
type ttlCache[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu         sync.Mutex
	entries    map[string]cacheEntry[V]
	generation uint64
}

func newTTLCache[V any](ttl time.Duration, now func() time.Time) *ttlCache[V] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ttlCache[V]{ttl: ttl, now: now, entries: make(map[string]cacheEntry[V])}
}

func (c *ttlCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(entry.created) > c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *ttlCache[V]) set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, created: c.now()}
}

// gen returns the current generation. Pass it to setIn after computing a
// value from data read after this call.
func (c *ttlCache[V]) gen() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// setIn stores value only if no clear happened since gen was read.
func (c *ttlCache[V]) setIn(gen uint64, key string, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.entries[key] = cacheEntry[V]{value: value, created: c.now()}
	return true
}

func (c *ttlCache[V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.generation++
}

func (c *ttlCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
