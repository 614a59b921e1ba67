// pkg/worker/reader.go

package worker

import (
	"context"
	"io"
	"sync"

	"BinView/pkg/source"
)

// Reader reads a source through a worker when one is configured and falls
// back to reading the source directly whenever the worker fails. The two
// paths keep separate caches that are never reconciled.
type Reader struct {
	direct *source.Source

	mu       sync.Mutex
	delegate *Worker
	opened   bool
}

// NewReader returns a reader over direct; w may be nil.
func NewReader(direct *source.Source, w *Worker) *Reader {
	r := &Reader{direct: direct, delegate: w}
	if w != nil {
		direct.Attach(w)
	}
	return r
}

// ready opens the source's file or handle in the worker on first use.
func (r *Reader) ready(ctx context.Context) *Worker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delegate == nil {
		return nil
	}
	if r.opened {
		return r.delegate
	}
	var input interface{}
	if h := r.direct.Handle(); h != nil {
		input = h
	} else if f := r.direct.File(); f != nil {
		input = f
	} else {
		// buffers are already in memory
		return nil
	}
	if err := r.delegate.Open(ctx, input); err != nil {
		logger.Warnf("open %s in worker: %s, reading directly", r.direct.Name(), err)
		return nil
	}
	r.opened = true
	return r.delegate
}

// Size prefers the worker's view of the file size.
func (r *Reader) Size(ctx context.Context) int64 {
	if w := r.ready(ctx); w != nil {
		size, err := w.Size(ctx)
		if err == nil {
			return size
		}
		r.fallback("size", err)
	}
	return r.direct.Size()
}

func (r *Reader) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if w := r.ready(ctx); w != nil && off >= 0 && off < r.direct.Size() {
		data, err := w.Read(ctx, off, len(p))
		if err == nil {
			n := copy(p, data)
			if n < len(p) {
				return n, io.EOF
			}
			return n, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		r.fallback("read", err)
	}
	return r.direct.ReadAt(ctx, p, off)
}

func (r *Reader) fallback(what string, err error) {
	logger.Warnf("worker %s of %s failed: %s, reading directly", what, r.direct.Name(), err)
}
