// pkg/chunk/cache.go

package chunk

import (
	"sync/atomic"

	"BinView/pkg/utils"
)

var logger = utils.GetLogger("binview")

// Cache is a bounded store of chunks keyed by index. Chunks are kept on an
// intrusive list ordered by recency, the head being the least recently
// touched one.
//
// Cache is not safe for concurrent use, the owning source serializes access.
type Cache struct {
	capacity int
	chunks   map[int64]*Chunk
	head     *Chunk // least recently used
	tail     *Chunk // most recently used
	used     int64

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a cache holding at most capacity chunks.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultMaxChunks
	}
	return &Cache{
		capacity: capacity,
		chunks:   make(map[int64]*Chunk, capacity),
	}
}

func (c *Cache) Capacity() int {
	return c.capacity
}

func (c *Cache) Len() int {
	return len(c.chunks)
}

// UsedMemory returns the bytes held by cached chunks.
func (c *Cache) UsedMemory() int64 {
	return c.used
}

func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cache) Has(idx int64) bool {
	_, ok := c.chunks[idx]
	return ok
}

// Get returns the chunk without changing its recency.
func (c *Cache) Get(idx int64) (*Chunk, bool) {
	ch, ok := c.chunks[idx]
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return ch, ok
}

// Touch moves a cached chunk to the most recently used position.
func (c *Cache) Touch(idx int64) bool {
	ch, ok := c.chunks[idx]
	if !ok {
		return false
	}
	if ch != c.tail {
		c.unlink(ch)
		c.pushBack(ch)
	}
	return true
}

// Put inserts a chunk as the most recently used one. When the cache is full
// exactly one least recently used chunk is evicted first.
func (c *Cache) Put(idx int64, data []byte) {
	if old, ok := c.chunks[idx]; ok {
		c.used += int64(len(data) - len(old.Data))
		old.Data = data
		c.Touch(idx)
		return
	}
	if len(c.chunks) >= c.capacity {
		c.removeOldest()
	}
	ch := &Chunk{Index: idx, Data: data}
	c.chunks[idx] = ch
	c.used += int64(len(data))
	c.pushBack(ch)
}

// EvictOutside drops every chunk whose index is not within [lo, hi] and
// returns how many were dropped.
func (c *Cache) EvictOutside(lo, hi int64) int {
	var n int
	for ch := c.head; ch != nil; {
		next := ch.next
		if ch.Index < lo || ch.Index > hi {
			c.delete(ch)
			n++
		}
		ch = next
	}
	return n
}

// Trim evicts least recently used chunks until fewer than limit remain.
func (c *Cache) Trim(limit int) int {
	var n int
	for len(c.chunks) >= limit && c.head != nil {
		c.removeOldest()
		n++
	}
	return n
}

// Indices returns cached chunk indices from least to most recently used.
func (c *Cache) Indices() []int64 {
	idx := make([]int64, 0, len(c.chunks))
	for ch := c.head; ch != nil; ch = ch.next {
		idx = append(idx, ch.Index)
	}
	return idx
}

// Reset drops all the chunks.
func (c *Cache) Reset() {
	c.chunks = make(map[int64]*Chunk, c.capacity)
	c.head, c.tail = nil, nil
	c.used = 0
}

func (c *Cache) removeOldest() {
	if c.head != nil {
		logger.Tracef("evict chunk %d from cache", c.head.Index)
		c.delete(c.head)
	}
}

func (c *Cache) delete(ch *Chunk) {
	c.unlink(ch)
	delete(c.chunks, ch.Index)
	c.used -= int64(len(ch.Data))
	ch.Data = nil
}

func (c *Cache) pushBack(ch *Chunk) {
	ch.prev = c.tail
	ch.next = nil
	if c.tail != nil {
		c.tail.next = ch
	} else {
		c.head = ch
	}
	c.tail = ch
}

func (c *Cache) unlink(ch *Chunk) {
	if ch.prev != nil {
		ch.prev.next = ch.next
	} else {
		c.head = ch.next
	}
	if ch.next != nil {
		ch.next.prev = ch.prev
	} else {
		c.tail = ch.prev
	}
	ch.prev, ch.next = nil, nil
}
