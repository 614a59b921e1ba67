// pkg/source/config.go

package source

import (
	"BinView/pkg/chunk"

	"github.com/pkg/errors"
)

// Config for sources.
type Config struct {
	ChunkSize    int   `yaml:"chunk-size"`    // bytes per chunk
	BufferChunks int   `yaml:"buffer-chunks"` // chunks kept around the requested range
	MaxChunks    int   `yaml:"max-chunks"`
	Concurrency  int   `yaml:"concurrency"` // parallel chunk loads per EnsureRange
	ReadLimit    int64 `yaml:"read-limit"`  // bytes per second, 0 means unlimited
	Watch        bool  `yaml:"watch"`
	Worker       bool  `yaml:"worker"`
}

// Default returns the stock configuration: 64KiB chunks, a 10 chunk buffer
// and at most 50 cached chunks.
func Default() Config {
	return Config{
		ChunkSize:    chunk.DefaultChunkSize,
		BufferChunks: chunk.DefaultBufferChunks,
		MaxChunks:    chunk.DefaultMaxChunks,
		Concurrency:  16,
	}
}

// Check fills zero values with defaults and rejects invalid ones.
func (c *Config) Check() error {
	d := Default()
	if c.ChunkSize == 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.BufferChunks == 0 {
		c.BufferChunks = d.BufferChunks
	}
	if c.MaxChunks == 0 {
		c.MaxChunks = d.MaxChunks
	}
	if c.Concurrency == 0 {
		c.Concurrency = d.Concurrency
	}
	switch {
	case c.ChunkSize < 0:
		return errors.Errorf("invalid chunk size %d", c.ChunkSize)
	case c.BufferChunks < 0:
		return errors.Errorf("invalid buffer chunks %d", c.BufferChunks)
	case c.MaxChunks < 0:
		return errors.Errorf("invalid max chunks %d", c.MaxChunks)
	case c.Concurrency < 0:
		return errors.Errorf("invalid concurrency %d", c.Concurrency)
	case c.ReadLimit < 0:
		return errors.Errorf("invalid read limit %d", c.ReadLimit)
	}
	return nil
}
