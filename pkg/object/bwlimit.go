// pkg/object/bwlimit.go

package object

import (
	"context"
	"io"
	"time"

	"BinView/pkg/source"

	"github.com/juju/ratelimit"
)

type limitedFile struct {
	source.File
	r *ratelimit.Bucket
}

func (l *limitedFile) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	n, err := l.File.ReadAt(ctx, p, off)
	if n > 0 {
		if wait := l.r.Take(int64(n)); wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return n, ctx.Err()
			case <-t.C:
			}
		}
	}
	return n, err
}

// Close closes the underlying file
func (l *limitedFile) Close() error {
	if c, ok := l.File.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newBucket(bytesPerSec int64) *ratelimit.Bucket {
	// leave headroom for protocol overhead
	return ratelimit.NewBucketWithRate(float64(bytesPerSec)*0.85, bytesPerSec)
}

// NewLimited throttles reads of f to about bytesPerSec. A waiting read gives
// up as soon as its context is cancelled.
func NewLimited(f source.File, bytesPerSec int64) source.File {
	if bytesPerSec <= 0 {
		return f
	}
	return &limitedFile{f, newBucket(bytesPerSec)}
}

type limitedHandle struct {
	source.Handle
	r *ratelimit.Bucket
}

func (l *limitedHandle) GetFile(ctx context.Context) (source.File, error) {
	f, err := l.Handle.GetFile(ctx)
	if err != nil {
		return nil, err
	}
	return &limitedFile{f, l.r}, nil
}

// Path exposes the path of local handles so they can still be watched, it
// is empty for remote ones.
func (l *limitedHandle) Path() string {
	if p, ok := l.Handle.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}

func (l *limitedHandle) Close() error {
	if c, ok := l.Handle.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// LimitHandle throttles every file resolved from h. All of them share one
// budget of bytesPerSec.
func LimitHandle(h source.Handle, bytesPerSec int64) source.Handle {
	if bytesPerSec <= 0 {
		return h
	}
	return &limitedHandle{h, newBucket(bytesPerSec)}
}
