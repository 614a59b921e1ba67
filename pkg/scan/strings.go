// pkg/scan/strings.go

package scan

import (
	"context"

	"BinView/pkg/source"
)

// Match is a string found in a source.
type Match struct {
	Offset int64
	Text   string
}

// runs longer than this are reported in pieces
const maxStringLen = 4096

func printable(c byte) bool {
	return c >= 0x20 && c < 0x7f || c == '\t'
}

// Strings reports every run of at least minLen printable ASCII characters,
// including runs that cross window boundaries.
func Strings(ctx context.Context, src *source.Source, minLen int, fn func(Match) error, progress Progress) error {
	if minLen < 1 {
		minLen = 4
	}
	var run []byte
	var runStart int64
	flush := func() error {
		if len(run) >= minLen {
			if err := fn(Match{Offset: runStart, Text: string(run)}); err != nil {
				return err
			}
		}
		run = run[:0]
		return nil
	}
	err := Windows(ctx, src, DefaultWindow, func(off int64, b []byte) error {
		for i, c := range b {
			if !printable(c) {
				if err := flush(); err != nil {
					return err
				}
				continue
			}
			if len(run) == 0 {
				runStart = off + int64(i)
			}
			run = append(run, c)
			if len(run) == maxStringLen {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return nil
	}, progress)
	if err != nil {
		return err
	}
	return flush()
}
