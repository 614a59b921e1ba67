// cmd/entropy.go

package main

import (
	"fmt"
	"strings"

	"BinView/pkg/scan"

	"github.com/urfave/cli/v2"
)

func entropyFlags() *cli.Command {
	return &cli.Command{
		Name:      "entropy",
		Usage:     "show the Shannon entropy of every block",
		ArgsUsage: "PATH or URI",
		Action:    entropy,
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:    "block-size",
				Aliases: []string{"b"},
				Value:   64 << 10,
				Usage:   "bytes per block",
			},
		},
	}
}

func entropy(c *cli.Context) error {
	if err := needArgs(c, 1, "PATH or URI"); err != nil {
		return err
	}
	s, _ := mustOpen(c, c.Args().First())
	defer s.Disconnect()

	var blocks []scan.Block
	err := withProgress(c, "entropy: ", s.Size(), func(p scan.Progress) error {
		var err error
		blocks, err = scan.Entropy(c.Context, s, c.Int64("block-size"), p)
		return err
	})
	if err != nil {
		return err
	}
	for _, b := range blocks {
		bar := strings.Repeat("#", int(b.Entropy*4+0.5))
		fmt.Printf("%08x %5.3f %s\n", b.Offset, b.Entropy, bar)
	}
	return nil
}
