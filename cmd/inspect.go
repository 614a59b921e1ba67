// cmd/inspect.go

package main

import (
	"fmt"
	"strings"

	"BinView/pkg/reader"
	"BinView/pkg/source"

	"github.com/urfave/cli/v2"
)

func inspectFlags() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "decode the bytes at an offset as numbers, dates and characters",
		ArgsUsage: "PATH or URI",
		Action:    inspect,
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:    "offset",
				Aliases: []string{"o"},
				Usage:   "offset of the first byte",
			},
			&cli.StringFlag{
				Name:    "endian",
				Aliases: []string{"e"},
				Value:   "le",
				Usage:   "byte order: le or be",
			},
			&cli.IntFlag{
				Name:  "string-length",
				Usage: "also decode a string of this many bytes",
			},
			&cli.StringFlag{
				Name:  "encoding",
				Value: "utf-8",
				Usage: "encoding of the string, one of " + strings.Join(reader.Encodings(), ", "),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print JSON instead of a table",
			},
		},
	}
}

func inspect(c *cli.Context) error {
	if err := needArgs(c, 1, "PATH or URI"); err != nil {
		return err
	}
	e, err := reader.ParseEndianness(c.String("endian"))
	if err != nil {
		return err
	}
	s, _ := mustOpen(c, c.Args().First())
	defer s.Disconnect()

	off := c.Int64("offset")
	n := c.Int("string-length")
	s.EnsureRange(c.Context, source.Range{Start: off, End: off + int64(max(n, 16))})
	fields := s.Interpret(off, e)
	if n > 0 {
		str := s.ReadString(off, n, c.String("encoding"))
		f := reader.Field{Name: "string", Err: str.Err}
		if str.OK() {
			f.Value = fmt.Sprintf("%q", str.Value)
		} else {
			f.Value = str.Err.String()
		}
		fields = append(fields, f)
	}

	if c.Bool("json") {
		printJson(fields)
		return nil
	}
	fmt.Printf("%s @ %d (0x%x), %s\n", s.Name(), off, off, e)
	for _, f := range fields {
		fmt.Printf("  %-14s %s\n", f.Name, f.Value)
	}
	return nil
}
