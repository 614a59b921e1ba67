// cmd/search.go

package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"BinView/pkg/scan"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func searchFlags() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "find every offset of a byte pattern",
		ArgsUsage: "PATH or URI PATTERN",
		Action:    search,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "hex",
				Aliases: []string{"x"},
				Usage:   "PATTERN is hex encoded, e.g. 7f454c46",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "stop after this many matches (0 means all)",
			},
		},
	}
}

func search(c *cli.Context) error {
	if err := needArgs(c, 2, "PATH or URI and PATTERN"); err != nil {
		return err
	}
	pattern := []byte(c.Args().Get(1))
	if c.Bool("hex") {
		var err error
		pattern, err = hex.DecodeString(strings.ReplaceAll(c.Args().Get(1), " ", ""))
		if err != nil {
			return errors.Wrap(err, "invalid hex pattern")
		}
	}
	s, _ := mustOpen(c, c.Args().First())
	defer s.Disconnect()

	var found []int64
	err := withProgress(c, "search: ", s.Size(), func(p scan.Progress) error {
		var err error
		found, err = scan.Search(c.Context, s, pattern, c.Int("limit"), p)
		return err
	})
	for _, off := range found {
		fmt.Printf("%08x %d\n", off, off)
	}
	logger.Infof("%d matches of %d byte pattern in %s", len(found), len(pattern), s.Name())
	return err
}
