package lyrics

import (
	"container/list"
	"time"
)

// Entry is one cached lookup outcome. Text is nil for a confirmed
// "no lyrics" result; negative entries occupy a slot exactly like
// positive ones and suppress repeated remote lookups until evicted.
type Entry struct {
	Key        string
	Text       *string
	InsertedAt time.Time
}

// Cache is a bounded LRU over track id. Touching a key via Get or
// Insert refreshes its recency; the least-recently-touched key is
// evicted first when a new key would exceed capacity. Entries have no
// TTL; eviction only happens under capacity pressure.
//
// Not safe for concurrent use; the owning service serializes access.
type Cache struct {
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

// NewCache creates a Cache with the given capacity, defaulting to 100
// when non-positive.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 100
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the entry for key, marking it most-recently-used.
func (c *Cache) Get(key string) (*Entry, bool) {
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*Entry), true
}

// Insert stores or overwrites the value for key and marks it
// most-recently-used, evicting the least-recently-used key first when
// a new key would exceed capacity.
func (c *Cache) Insert(key string, text *string) {
	if el, ok := c.entries[key]; ok {
		el.Value = &Entry{Key: key, Text: text, InsertedAt: time.Now()}
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			evicted := c.order.Remove(oldest).(*Entry)
			delete(c.entries, evicted.Key)
		}
	}

	c.entries[key] = c.order.PushFront(&Entry{Key: key, Text: text, InsertedAt: time.Now()})
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.order.Len()
}
