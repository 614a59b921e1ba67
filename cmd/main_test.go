// cmd/main_test.go

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"BinView/pkg/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk-size: 4096\nmax-chunks: 30\nworker: true\n"), 0644))

	var conf source.Config
	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			conf = loadConfig(c)
			return nil
		},
	}
	require.NoError(t, app.Run([]string{"binview", "--config", path, "--max-chunks", "20", "--read-limit", "2"}))
	assert.Equal(t, 4096, conf.ChunkSize)
	assert.Equal(t, 20, conf.MaxChunks)
	assert.Equal(t, source.Default().BufferChunks, conf.BufferChunks)
	assert.EqualValues(t, 2048, conf.ReadLimit)
	assert.True(t, conf.Worker)
}

func TestFormatRow(t *testing.T) {
	row := formatRow(0x20, []byte("AB\x00"), 4)
	assert.Equal(t, "00000020  41 42 00     |AB.|", row)
	assert.True(t, strings.HasPrefix(formatRow(0, nil, 16), "00000000 "))
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	data := []byte("\x7fELF\x02\x01\x01\x00 some text here and more text")
	require.NoError(t, os.WriteFile(a, data, 0644))
	require.NoError(t, os.WriteFile(b, data, 0644))

	for _, args := range [][]string{
		{"info", a, b},
		{"dump", "--width", "8", a},
		{"dump", "--offset", "-8", a},
		{"inspect", "--offset", "4", "--endian", "be", "--string-length", "4", a},
		{"inspect", "--json", a},
		{"strings", a},
		{"entropy", "--block-size", "16", a},
		{"search", a, "text"},
		{"search", "--hex", a, "7f454c46"},
		{"--worker", "dump", a},
		{"diff", a, b},
	} {
		err := Main(append([]string{"binview", "-q"}, args...))
		assert.NoError(t, err, "%v", args)
	}
	assert.Error(t, Main([]string{"binview", "-q", "search", a}))
	assert.Error(t, Main([]string{"binview", "-q", "inspect", "--endian", "middle", a}))
}
