// pkg/source/file.go

package source

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

const defaultType = "application/octet-stream"

// TypeByName guesses a MIME type from the file extension.
func TypeByName(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return defaultType
}

// LocalFile is a snapshot of a file on the local file system.
type LocalFile struct {
	sync.Mutex
	f    *os.File
	name string
	size int64
	typ  string
}

// OpenFile opens path read-only and records its current size.
func OpenFile(path string) (*LocalFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, errors.Errorf("%s is a directory", path)
	}
	lf := &LocalFile{f: f, name: filepath.Base(path), size: fi.Size(), typ: TypeByName(path)}
	fadviseRandom(f, fi.Size())
	return lf, nil
}

func (l *LocalFile) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.Lock()
	f := l.f
	l.Unlock()
	if f == nil {
		return 0, os.ErrClosed
	}
	fadviseWillNeed(f, off, int64(len(p)))
	return f.ReadAt(p, off)
}

func (l *LocalFile) Name() string { return l.name }
func (l *LocalFile) Size() int64  { return l.size }
func (l *LocalFile) Type() string { return l.typ }

func (l *LocalFile) Close() error {
	l.Lock()
	defer l.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// PathHandle resolves a path to a fresh LocalFile on every GetFile.
type PathHandle struct {
	path string
}

func NewPathHandle(path string) *PathHandle {
	return &PathHandle{path: path}
}

func (h *PathHandle) Name() string { return filepath.Base(h.path) }
func (h *PathHandle) Path() string { return h.path }

func (h *PathHandle) GetFile(ctx context.Context) (File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := OpenFile(h.path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
