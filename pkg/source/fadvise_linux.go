// pkg/source/fadvise_linux.go

package source

import (
	"os"

	"golang.org/x/sys/unix"
)

func fadviseRandom(f *os.File, size int64) {
	if err := unix.Fadvise(int(f.Fd()), 0, size, unix.FADV_RANDOM); err != nil {
		logger.Debugf("fadvise %s: %s", f.Name(), err)
	}
}

func fadviseWillNeed(f *os.File, off, n int64) {
	_ = unix.Fadvise(int(f.Fd()), off, n, unix.FADV_WILLNEED)
}
