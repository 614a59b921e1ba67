// pkg/scan/diff.go

package scan

import "BinView/pkg/chunk"

// Diff compares two snapshots byte by byte and returns the ranges where they
// differ. Bytes present in only one snapshot form a final range.
func Diff(a, b []byte) []chunk.Range {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var out []chunk.Range
	start := -1
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			out = append(out, chunk.Range{Start: int64(start), End: int64(i)})
			start = -1
		}
	}
	end := len(a)
	if len(b) > end {
		end = len(b)
	}
	switch {
	case start >= 0:
		out = append(out, chunk.Range{Start: int64(start), End: int64(end)})
	case n < end:
		out = append(out, chunk.Range{Start: int64(n), End: int64(end)})
	}
	return out
}

// DiffBytes is the number of differing bytes in ranges.
func DiffBytes(ranges []chunk.Range) int64 {
	var n int64
	for _, r := range ranges {
		n += r.Len()
	}
	return n
}
