package cache

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the render cache size used by the picker.
const DefaultCapacity = 1000

// ErrInvalidCapacity is returned when a cache is created with capacity <= 0.
var ErrInvalidCapacity = errors.New("cache: invalid capacity")

// Stats holds cache counters.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits / (hits + misses), or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// FIFO is a bounded map that evicts the oldest-inserted entry when full.
//
// Get does not reorder entries, so FIFO is not an LRU. Replacing the value
// of an existing key keeps the key's original position.
//
// FIFO is not safe for concurrent use.
type FIFO[K comparable, V any] struct {
	capacity int
	entries  map[K]*fifoEntry[K, V]
	order    queue[K]

	hits      uint64
	misses    uint64
	evictions uint64
}

type fifoEntry[K comparable, V any] struct {
	value V
	node  *queueNode[K]
}

// New creates a FIFO holding at most capacity entries.
func New[K comparable, V any](capacity int) (*FIFO[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &FIFO[K, V]{
		capacity: capacity,
		entries:  make(map[K]*fifoEntry[K, V], min(capacity, 1024)),
	}, nil
}

// MustNew is like New but panics on an invalid capacity.
func MustNew[K comparable, V any](capacity int) *FIFO[K, V] {
	c, err := New[K, V](capacity)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the value stored under key.
func (c *FIFO[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Contains reports whether key is cached without touching the counters.
func (c *FIFO[K, V]) Contains(key K) bool {
	_, ok := c.entries[key]
	return ok
}

// Put stores value under key. When a new key arrives at a full cache the
// single oldest entry is evicted first.
func (c *FIFO[K, V]) Put(key K, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		return
	}
	if len(c.entries) >= c.capacity {
		if oldest := c.order.Oldest(); oldest != nil {
			c.remove(oldest.key)
			c.evictions++
		}
	}
	c.entries[key] = &fifoEntry[K, V]{value: value, node: c.order.PushFront(key)}
}

// Delete removes key and reports whether it was present.
func (c *FIFO[K, V]) Delete(key K) bool {
	if _, ok := c.entries[key]; !ok {
		return false
	}
	c.remove(key)
	return true
}

// Invalidate removes every entry whose key satisfies pred and returns the
// number removed. A nil pred clears the cache.
func (c *FIFO[K, V]) Invalidate(pred func(K) bool) int {
	if pred == nil {
		n := len(c.entries)
		c.Clear()
		return n
	}
	removed := 0
	for node := c.order.head; node != nil; {
		next := node.next
		if pred(node.key) {
			c.remove(node.key)
			removed++
		}
		node = next
	}
	return removed
}

// Clear removes all entries. Counters are kept.
func (c *FIFO[K, V]) Clear() {
	clear(c.entries)
	c.order.Clear()
}

// Len returns the number of entries.
func (c *FIFO[K, V]) Len() int { return len(c.entries) }

// Capacity returns the maximum number of entries.
func (c *FIFO[K, V]) Capacity() int { return c.capacity }

// Keys returns the cached keys from oldest to newest.
func (c *FIFO[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.entries))
	for node := c.order.tail; node != nil; node = node.prev {
		keys = append(keys, node.key)
	}
	return keys
}

// Stats returns a snapshot of the cache counters.
func (c *FIFO[K, V]) Stats() Stats {
	return Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *FIFO[K, V]) remove(key K) {
	e := c.entries[key]
	c.order.Remove(e.node)
	delete(c.entries, key)
}
