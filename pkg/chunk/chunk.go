// pkg/chunk/chunk.go

package chunk

import "fmt"

const (
	DefaultChunkSize    = 64 << 10
	DefaultBufferChunks = 10
	DefaultMaxChunks    = 50
)

// Range is a half-open interval [Start, End) of byte offsets.
type Range struct {
	Start int64
	End   int64
}

func (r Range) Len() int64 {
	return r.End - r.Start
}

func (r Range) Empty() bool {
	return r.End <= r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Clamp limits r to [0, size].
func (r Range) Clamp(size int64) Range {
	if size < 0 {
		size = 0
	}
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > size {
		r.End = size
	}
	if r.Start > size {
		r.Start = size
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

// Index returns the chunk index holding off.
func Index(off int64, chunkSize int) int64 {
	return off / int64(chunkSize)
}

// Span returns the first and last chunk index covering a non-empty range.
func Span(r Range, chunkSize int) (first, last int64) {
	return Index(r.Start, chunkSize), Index(r.End-1, chunkSize)
}

// Window returns the byte window of chunk idx in a source of the given size.
func Window(idx int64, chunkSize int, size int64) Range {
	start := idx * int64(chunkSize)
	end := start + int64(chunkSize)
	if end > size {
		end = size
	}
	return Range{start, end}
}

// Count returns the number of chunks of a source of the given size.
func Count(size int64, chunkSize int) int64 {
	if size <= 0 {
		return 0
	}
	return (size + int64(chunkSize) - 1) / int64(chunkSize)
}

// Chunk is a loaded byte buffer; the last chunk of a source may be short.
type Chunk struct {
	Index int64
	Data  []byte

	prev, next *Chunk
}

// Offset returns the first byte offset held by c.
func (c *Chunk) Offset(chunkSize int) int64 {
	return c.Index * int64(chunkSize)
}
