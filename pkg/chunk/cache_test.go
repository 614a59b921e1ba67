package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Range
		size int64
		want Range
	}{
		{"inside", Range{10, 20}, 100, Range{10, 20}},
		{"negative start", Range{-5, 20}, 100, Range{0, 20}},
		{"past end", Range{90, 200}, 100, Range{90, 100}},
		{"start past end", Range{150, 200}, 100, Range{100, 100}},
		{"inverted", Range{50, 10}, 100, Range{50, 50}},
		{"empty source", Range{0, 10}, 0, Range{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamp(tt.size))
		})
	}
}

func TestSpanAndWindow(t *testing.T) {
	first, last := Span(Range{100, 300}, 128)
	assert.Equal(t, int64(0), first)
	assert.Equal(t, int64(2), last)

	first, last = Span(Range{128, 256}, 128)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(1), last)

	assert.Equal(t, Range{256, 300}, Window(2, 128, 300))
	assert.Equal(t, int64(3), Count(300, 128))
	assert.Equal(t, int64(0), Count(0, 128))
}

func TestCachePutEvictsOneWhenFull(t *testing.T) {
	c := NewCache(3)
	c.Put(1, []byte{1})
	c.Put(2, []byte{2})
	c.Put(3, []byte{3})
	require.Equal(t, 3, c.Len())

	c.Put(4, []byte{4})
	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Has(1))
	assert.Equal(t, []int64{2, 3, 4}, c.Indices())
	assert.Equal(t, int64(3), c.UsedMemory())
}

func TestCacheTouchRefreshesRecency(t *testing.T) {
	c := NewCache(3)
	c.Put(1, []byte{1})
	c.Put(2, []byte{2})
	c.Put(3, []byte{3})

	require.True(t, c.Touch(1))
	assert.Equal(t, []int64{2, 3, 1}, c.Indices())

	c.Put(4, []byte{4})
	assert.False(t, c.Has(2))
	assert.True(t, c.Has(1))
	assert.False(t, c.Touch(42))
}

func TestCacheGetKeepsRecency(t *testing.T) {
	c := NewCache(4)
	c.Put(1, []byte{1})
	c.Put(2, []byte{2})

	ch, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, []byte{1}, ch.Data)
	_, ok = c.Get(9)
	assert.False(t, ok)

	assert.Equal(t, []int64{1, 2}, c.Indices())
	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCacheEvictOutsideAndTrim(t *testing.T) {
	c := NewCache(10)
	for i := int64(0); i < 10; i++ {
		c.Put(i, make([]byte, 4))
	}
	assert.Equal(t, 6, c.EvictOutside(3, 6))
	assert.Equal(t, []int64{3, 4, 5, 6}, c.Indices())
	assert.Equal(t, int64(16), c.UsedMemory())

	// Trim leaves strictly fewer than the limit
	assert.Equal(t, 2, c.Trim(3))
	assert.Equal(t, []int64{5, 6}, c.Indices())
	assert.Equal(t, 0, c.Trim(3))
}

func TestCachePutReplaces(t *testing.T) {
	c := NewCache(2)
	c.Put(1, []byte{1, 1})
	c.Put(2, []byte{2})
	c.Put(1, []byte{9})

	ch, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, []byte{9}, ch.Data)
	assert.Equal(t, []int64{2, 1}, c.Indices())
	assert.Equal(t, int64(2), c.UsedMemory())
}

func TestCacheReset(t *testing.T) {
	c := NewCache(0)
	assert.Equal(t, DefaultMaxChunks, c.Capacity())
	c.Put(1, []byte{1})
	c.Put(2, []byte{2})
	c.Put(3, []byte{3})
	assert.Equal(t, []int64{1, 2, 3}, c.Indices())

	c.Reset()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.UsedMemory())
	assert.Empty(t, c.Indices())
}

func TestCacheNeverExceedsCapacity(t *testing.T) {
	c := NewCache(DefaultMaxChunks)
	for i := int64(0); i < 500; i++ {
		c.Put(i*7%311, []byte{byte(i)})
		require.LessOrEqual(t, c.Len(), DefaultMaxChunks)
	}
}
