// pkg/scan/entropy.go

package scan

import (
	"context"
	"math"

	"BinView/pkg/source"
)

// Block is the Shannon entropy, in bits per byte, of one block of a source.
type Block struct {
	Offset  int64
	Size    int64
	Entropy float64
}

// Shannon returns the entropy of b in bits per byte, from 0 to 8.
func Shannon(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	var counts [256]int
	for _, c := range b {
		counts[c]++
	}
	return entropy(&counts, int64(len(b)))
}

func entropy(counts *[256]int, total int64) float64 {
	var h float64
	n := float64(total)
	for _, c := range counts {
		if c > 0 {
			p := float64(c) / n
			h -= p * math.Log2(p)
		}
	}
	return h
}

// Entropy measures every block of blockSize bytes; the last one may be short.
func Entropy(ctx context.Context, src *source.Source, blockSize int64, progress Progress) ([]Block, error) {
	if blockSize <= 0 {
		blockSize = 64 << 10
	}
	var counts [256]int
	var blocks []Block
	var cur Block
	emit := func() {
		cur.Entropy = entropy(&counts, cur.Size)
		counts = [256]int{}
		blocks = append(blocks, cur)
		cur = Block{Offset: cur.Offset + cur.Size}
	}
	err := Windows(ctx, src, DefaultWindow, func(off int64, b []byte) error {
		for len(b) > 0 {
			take := blockSize - cur.Size
			if take > int64(len(b)) {
				take = int64(len(b))
			}
			for _, c := range b[:take] {
				counts[c]++
			}
			cur.Size += take
			b = b[take:]
			if cur.Size == blockSize {
				emit()
			}
		}
		return nil
	}, progress)
	if err != nil {
		return nil, err
	}
	if cur.Size > 0 {
		emit()
	}
	return blocks, nil
}
