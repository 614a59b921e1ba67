// pkg/source/loader.go

package source

import (
	"context"
	"io"

	"BinView/pkg/chunk"
	"BinView/pkg/utils"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Range is a half-open interval of byte offsets.
type Range = chunk.Range

func (s *Source) chunked() bool {
	return s.kind == KindFile || s.kind == KindHandle
}

// EnsureRange makes every chunk covering r resident and reports whether new
// chunks were fetched. A call supersedes the previous one on this source:
// that one is aborted and commits nothing. Failures are logged and reported
// as false, cancellation is silent.
func (s *Source) EnsureRange(ctx context.Context, r Range) bool {
	s.mu.Lock()
	if s.state == Disconnected || s.state == Unresolved || !s.chunked() {
		s.mu.Unlock()
		return false
	}
	r = r.Clamp(s.size)
	if r.Empty() {
		s.mu.Unlock()
		return false
	}

	cs := s.conf.ChunkSize
	first, last := chunk.Span(r, cs)
	lo := first - int64(s.conf.BufferChunks)
	if lo < 0 {
		lo = 0
	}
	hi := last + int64(s.conf.BufferChunks)
	if n := chunk.Count(s.size, cs); hi > n-1 {
		hi = n - 1
	}
	// keep-window first, then LRU on whatever is left
	s.cache.EvictOutside(lo, hi)
	if s.cache.Len() >= s.conf.MaxChunks {
		s.cache.Trim(s.conf.MaxChunks)
	}

	var missing []int64
	for idx := first; idx <= last; idx++ {
		if !s.cache.Touch(idx) {
			missing = append(missing, idx)
		}
	}
	if len(missing) == 0 {
		// already satisfied, the current load keeps running
		s.mu.Unlock()
		return false
	}
	if s.current != nil {
		s.current.cancel()
	}

	lctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	l := &load{ctx: lctx, cancel: cancel}
	s.current = l
	s.loading++
	s.state = Loading
	file, size := s.file, s.size
	s.mu.Unlock()

	start := utils.Clock()
	results := make([][]byte, len(missing))
	g := new(errgroup.Group)
	g.SetLimit(s.conf.Concurrency)
	for i, idx := range missing {
		g.Go(func() error {
			data, err := s.loadChunk(lctx, file, idx, size)
			results[i] = data
			return err
		})
	}
	err := g.Wait()

	s.mu.Lock()
	defer func() {
		s.finish(l)
		s.mu.Unlock()
		stop()
		cancel()
	}()

	used := utils.Since(start)
	if lctx.Err() != nil || errors.Is(err, ErrAborted) {
		logger.Debugf("load %s of %s aborted", r, s.name)
		logit(s, used, "ensure %s: aborted", r)
		return false
	}
	var loaded int
	for i, data := range results {
		if data != nil {
			s.cache.Put(missing[i], data)
			loaded++
		}
	}
	if err != nil {
		logger.Warnf("load %s of %s: %s", r, s.name, err)
		logit(s, used, "ensure %s: %d chunks, %s", r, loaded, err)
		return false
	}
	logit(s, used, "ensure %s: %d chunks", r, loaded)
	return loaded > 0
}

// finish must be called with the lock held.
func (s *Source) finish(l *load) {
	if s.current == l {
		s.current = nil
	}
	s.loading--
	if s.loading == 0 && s.state == Loading {
		s.state = Ready
	}
}

// loadChunk reads the byte window of chunk idx. Cancellation is checked right
// before and right after the read.
func (s *Source) loadChunk(ctx context.Context, file File, idx int64, size int64) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ErrAborted
	}
	w := chunk.Window(idx, s.conf.ChunkSize, size)
	buf := make([]byte, w.Len())
	n, err := file.ReadAt(ctx, buf, w.Start)
	if ctx.Err() != nil {
		return nil, ErrAborted
	}
	if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
		return nil, errors.Wrapf(err, "read chunk %d", idx)
	}
	if n < len(buf) {
		return nil, errors.Errorf("read chunk %d: short read %d < %d", idx, n, len(buf))
	}
	return buf, nil
}

// IsRangeLoaded reports whether r can be read completely without loading.
func (s *Source) IsRangeLoaded(r Range) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Disconnected || s.state == Unresolved {
		return false
	}
	if !s.chunked() {
		return true
	}
	r = r.Clamp(s.size)
	if r.Empty() {
		return true
	}
	first, last := chunk.Span(r, s.conf.ChunkSize)
	for idx := first; idx <= last; idx++ {
		if !s.cache.Has(idx) {
			return false
		}
	}
	return true
}

// ReadBytes returns up to length bytes at off. It never loads: for chunked
// sources the result stops at the first chunk that is not resident. It is
// nil for invalid arguments and for unresolved or disconnected sources.
// Bytes of buffer sources are shared and must not be modified.
func (s *Source) ReadBytes(off, length int64) []byte {
	if off < 0 || length < 0 {
		return nil
	}
	return s.GetDataAtRange(Range{Start: off, End: off + length})
}

// GetDataAtRange is ReadBytes over a range.
func (s *Source) GetDataAtRange(r Range) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Disconnected || s.state == Unresolved {
		return nil
	}
	r = r.Clamp(s.size)
	if !s.chunked() {
		return s.data[r.Start:r.End]
	}

	cs := s.conf.ChunkSize
	out := make([]byte, 0, r.Len())
	for pos := r.Start; pos < r.End; {
		ch, ok := s.cache.Get(chunk.Index(pos, cs))
		if !ok {
			break
		}
		base := ch.Offset(cs)
		end := utils.Min(r.End, base+int64(len(ch.Data)))
		if end <= pos {
			break
		}
		out = append(out, ch.Data[pos-base:end-base]...)
		pos = end
	}
	return out
}

// RowBytes returns the loaded bytes of grid row `row` when rows are width
// bytes wide.
func (s *Source) RowBytes(row, width int64) []byte {
	if width <= 0 || row < 0 {
		return nil
	}
	return s.ReadBytes(row*width, width)
}
