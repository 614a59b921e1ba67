// pkg/scan/search.go

package scan

import (
	"bytes"
	"context"

	"BinView/pkg/source"

	"github.com/pkg/errors"
)

var errEnough = errors.New("enough matches")

// Search returns the offsets of pattern in src, at most limit of them when
// limit is positive. Matches may overlap and span windows.
func Search(ctx context.Context, src *source.Source, pattern []byte, limit int, progress Progress) ([]int64, error) {
	if len(pattern) == 0 {
		return nil, errors.New("empty pattern")
	}
	var found []int64
	// the last len(pattern)-1 bytes of the previous window
	var tail []byte
	var buf []byte
	err := Windows(ctx, src, DefaultWindow, func(off int64, b []byte) error {
		buf = append(append(buf[:0], tail...), b...)
		base := off - int64(len(tail))
		for i := 0; ; {
			j := bytes.Index(buf[i:], pattern)
			if j < 0 {
				break
			}
			found = append(found, base+int64(i+j))
			if limit > 0 && len(found) >= limit {
				return errEnough
			}
			i += j + 1
		}
		keep := len(pattern) - 1
		if keep > len(buf) {
			keep = len(buf)
		}
		tail = append(tail[:0], buf[len(buf)-keep:]...)
		return nil
	}, progress)
	if err != nil && err != errEnough {
		return found, err
	}
	return found, nil
}
