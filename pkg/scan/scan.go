// pkg/scan/scan.go

package scan

import (
	"context"
	"io"
	"time"

	"BinView/pkg/source"
	"BinView/pkg/utils"

	"github.com/pkg/errors"
)

var logger = utils.GetLogger("binview")

// DefaultWindow is the number of bytes analyzed per step.
const DefaultWindow = 1 << 20

// Progress is told how many of total bytes are done after every window.
type Progress func(done, total int64)

// Visitor receives consecutive windows of the source. b is only valid
// during the call.
type Visitor func(off int64, b []byte) error

// Windows feeds fn the whole source, window bytes at a time. Every window is
// loaded into the source's cache first, so memory stays bounded by the cache
// and one window. ctx is checked between windows.
func Windows(ctx context.Context, src *source.Source, window int64, fn Visitor, progress Progress) error {
	if window <= 0 {
		window = DefaultWindow
	}
	size := src.Size()
	buf := make([]byte, utils.Min(window, utils.Max(size, 1)))
	start := time.Now()
	for off := int64(0); off < size; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := src.ReadAt(ctx, buf, off)
		if err != nil && !(errors.Is(err, io.EOF) && n > 0) {
			return errors.Wrapf(err, "scan %s at %d", src.Name(), off)
		}
		if err = fn(off, buf[:n]); err != nil {
			return err
		}
		off += int64(n)
		if progress != nil {
			progress(off, size)
		}
	}
	logger.Debugf("scanned %s (%s) in %s", src.Name(), utils.FormatBytes(size), time.Since(start))
	return nil
}
