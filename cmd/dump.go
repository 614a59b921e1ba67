// cmd/dump.go

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"BinView/pkg/source"

	"github.com/urfave/cli/v2"
)

func dumpFlags() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "print a hex dump of a byte range",
		ArgsUsage: "PATH or URI",
		Action:    dump,
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:    "offset",
				Aliases: []string{"o"},
				Usage:   "first byte to dump",
			},
			&cli.Int64Flag{
				Name:    "length",
				Aliases: []string{"n"},
				Value:   256,
				Usage:   "number of bytes to dump, -1 for all",
			},
			&cli.IntFlag{
				Name:    "width",
				Aliases: []string{"w"},
				Value:   16,
				Usage:   "bytes per row",
			},
		},
	}
}

// rows rendered per load
const dumpBlockRows = 1024

func formatRow(off int64, row []byte, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%08x ", off)
	for i := 0; i < width; i++ {
		if i%8 == 0 {
			b.WriteByte(' ')
		}
		if i < len(row) {
			fmt.Fprintf(&b, "%02x ", row[i])
		} else {
			b.WriteString("   ")
		}
	}
	b.WriteString(" |")
	for _, c := range row {
		if c >= 0x20 && c < 0x7f {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	b.WriteByte('|')
	return b.String()
}

func dump(c *cli.Context) error {
	if err := needArgs(c, 1, "PATH or URI"); err != nil {
		return err
	}
	s, conf := mustOpen(c, c.Args().First())
	defer s.Disconnect()

	width := c.Int("width")
	if width <= 0 {
		logger.Fatalf("invalid width %d", width)
	}
	start := c.Int64("offset")
	if start < 0 {
		start += s.Size()
	}
	end := s.Size()
	if n := c.Int64("length"); n >= 0 && start+n < end {
		end = start + n
	}
	if start < 0 || start >= end {
		return nil
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	r := newReader(s, conf)
	block := make([]byte, dumpBlockRows*width)
	for pos := start; pos < end; {
		buf := block[:min(int64(len(block)), end-pos)]
		n, err := r.ReadAt(c.Context, buf, pos)
		if err != nil && err != io.EOF {
			return err
		}
		for i := 0; i < n; i += width {
			row := buf[i:min(i+width, n)]
			fmt.Fprintln(out, formatRow(pos+int64(i), row, width))
		}
		if n == 0 {
			break
		}
		pos += int64(n)
	}
	logger.Debugf("%s", statsLine(s))
	return nil
}

func statsLine(s *source.Source) string {
	st := s.Stats()
	return fmt.Sprintf("%s: %d chunks cached (%d bytes), %d hits, %d misses",
		s.Name(), st.Chunks, st.CachedBytes, st.Hits, st.Misses)
}
