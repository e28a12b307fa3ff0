// Package cache provides the bounded render cache used for glyph bitmaps.
//
// # FIFO[K, V]
//
// A map with a hard capacity that evicts the oldest-inserted entry when a
// new key arrives at a full cache. Entries can be dropped in bulk with a
// key predicate, which is how a folder switch discards only that folder's
// bitmaps:
//
//	c := cache.MustNew[string, int](2)
//	c.Put("a", 1)
//	c.Put("b", 2)
//	c.Put("c", 3) // evicts "a"
//	c.Invalidate(func(k string) bool { return k == "b" })
//
// A capacity below one is a programming error and fails at construction
// with ErrInvalidCapacity.
//
// # Thread Safety
//
// FIFO is owned by a single goroutine and has no internal locking.
package cache
