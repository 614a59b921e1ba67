// cmd/diff.go

package main

import (
	"fmt"
	"io"

	"BinView/pkg/scan"
	"BinView/pkg/utils"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func diffFlags() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare two files byte by byte",
		ArgsUsage: "PATH or URI, PATH or URI",
		Action:    diff,
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "max-size",
				Value: 256 << 20,
				Usage: "refuse files larger than this, both are read into memory",
			},
		},
	}
}

// snapshot reads a whole file into memory.
func snapshot(c *cli.Context, uri string, limit int64) ([]byte, error) {
	s, conf := mustOpen(c, uri)
	defer s.Disconnect()
	if s.Size() > limit {
		return nil, errors.Errorf("%s is %s, more than --max-size", uri, utils.FormatBytes(s.Size()))
	}
	data := make([]byte, s.Size())
	r := newReader(s, conf)
	n, err := r.ReadAt(c.Context, data, 0)
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "read %s", uri)
	}
	return data[:n], nil
}

func diff(c *cli.Context) error {
	if err := needArgs(c, 2, "two PATHs or URIs"); err != nil {
		return err
	}
	limit := c.Int64("max-size")
	a, err := snapshot(c, c.Args().Get(0), limit)
	if err != nil {
		return err
	}
	b, err := snapshot(c, c.Args().Get(1), limit)
	if err != nil {
		return err
	}
	ranges := scan.Diff(a, b)
	for _, r := range ranges {
		fmt.Printf("%08x-%08x %d bytes\n", r.Start, r.End, r.Len())
	}
	if len(ranges) == 0 {
		logger.Infof("files are identical (%s)", utils.FormatBytes(int64(len(a))))
		return nil
	}
	return cli.Exit(fmt.Sprintf("%d ranges, %d bytes differ", len(ranges), scan.DiffBytes(ranges)), 1)
}
