// cmd/info.go

package main

import (
	"BinView/pkg/chunk"
	"BinView/pkg/utils"

	"github.com/urfave/cli/v2"
)

func infoFlags() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "show size, type and chunk layout of files",
		ArgsUsage: "PATH or URI...",
		Action:    info,
	}
}

type fileInfo struct {
	Name      string
	URI       string
	Type      string
	Size      int64
	Human     string
	State     string
	ChunkSize int
	Chunks    int64
	MaxChunks int
}

func info(c *cli.Context) error {
	if err := needArgs(c, 1, "PATH or URI"); err != nil {
		return err
	}
	var infos []fileInfo
	for _, uri := range c.Args().Slice() {
		conf := loadConfig(c)
		s, err := openSource(c.Context, uri, conf)
		if err != nil {
			logger.Errorf("open %s: %s", uri, err)
			continue
		}
		infos = append(infos, fileInfo{
			Name:      s.Name(),
			URI:       uri,
			Type:      s.Type(),
			Size:      s.Size(),
			Human:     utils.FormatBytes(s.Size()),
			State:     s.State().String(),
			ChunkSize: conf.ChunkSize,
			Chunks:    chunk.Count(s.Size(), conf.ChunkSize),
			MaxChunks: conf.MaxChunks,
		})
		s.Disconnect()
	}
	printJson(infos)
	return nil
}

