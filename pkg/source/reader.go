// pkg/source/reader.go

package source

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// loads that come back empty are retried this often before giving up
const maxRetries = 3

// ReadAt loads and copies the bytes at off into p. Requests larger than the
// cache are served in windows, so it works for any length.
func (s *Source) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.Errorf("negative offset %d", off)
	}
	size := s.Size()
	if s.State() == Disconnected {
		return 0, ErrDisconnected
	}
	if off >= size {
		return 0, io.EOF
	}
	// windows start anywhere but end on a chunk boundary, so one never
	// spans more chunks than the cache holds
	cs := int64(s.conf.ChunkSize)
	span := int64(s.conf.MaxChunks/2 + 1)
	var n int
	for n < len(p) && off+int64(n) < size {
		pos := off + int64(n)
		want := int64(len(p) - n)
		if end := (pos/cs + span) * cs; pos+want > end {
			want = end - pos
		}
		got, err := s.fill(ctx, p[n:n+int(want)], pos)
		n += got
		if err != nil {
			return n, err
		}
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *Source) fill(ctx context.Context, p []byte, off int64) (int, error) {
	for try := 0; ; try++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s.EnsureRange(ctx, Range{Start: off, End: off + int64(len(p))})
		b := s.ReadBytes(off, int64(len(p)))
		if len(b) > 0 {
			return copy(p, b), nil
		}
		if s.State() == Disconnected {
			return 0, ErrDisconnected
		}
		if try+1 >= maxRetries {
			return 0, errors.Errorf("load %d bytes at %d of %s failed", len(p), off, s.Name())
		}
	}
}

// Reader is a sequential io.Reader and io.Seeker over a source.
type Reader struct {
	ctx context.Context
	s   *Source
	off int64
}

// NewReader returns a reader starting at offset 0; ctx bounds every load.
func NewReader(ctx context.Context, s *Source) *Reader {
	return &Reader{ctx: ctx, s: s}
}

func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := r.s.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	return r.s.ReadAt(r.ctx, p, off)
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += r.off
	case io.SeekEnd:
		offset += r.s.Size()
	default:
		return 0, errors.Errorf("invalid whence %d", whence)
	}
	if offset < 0 {
		return 0, errors.Errorf("negative position %d", offset)
	}
	r.off = offset
	return offset, nil
}
