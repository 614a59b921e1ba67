// cmd/strings.go

package main

import (
	"bufio"
	"fmt"
	"os"

	"BinView/pkg/scan"

	"github.com/urfave/cli/v2"
)

func stringsFlags() *cli.Command {
	return &cli.Command{
		Name:      "strings",
		Usage:     "print printable ASCII runs with their offsets",
		ArgsUsage: "PATH or URI",
		Action:    stringsCmd,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "min-len",
				Aliases: []string{"m"},
				Value:   4,
				Usage:   "shortest run to report",
			},
		},
	}
}

func stringsCmd(c *cli.Context) error {
	if err := needArgs(c, 1, "PATH or URI"); err != nil {
		return err
	}
	s, _ := mustOpen(c, c.Args().First())
	defer s.Disconnect()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	var count int
	err := withProgress(c, "strings: ", s.Size(), func(p scan.Progress) error {
		return scan.Strings(c.Context, s, c.Int("min-len"), func(m scan.Match) error {
			count++
			_, err := fmt.Fprintf(out, "%08x %s\n", m.Offset, m.Text)
			return err
		}, p)
	})
	logger.Debugf("%d strings in %s", count, s.Name())
	return err
}
