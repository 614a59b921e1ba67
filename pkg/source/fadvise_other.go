// pkg/source/fadvise_other.go

//go:build !linux

package source

import "os"

func fadviseRandom(f *os.File, size int64) {}

func fadviseWillNeed(f *os.File, off, n int64) {}
