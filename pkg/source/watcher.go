// pkg/source/watcher.go

package source

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// events arriving within this delay are folded into one refresh
const settleDelay = 50 * time.Millisecond

type pathHandle interface {
	Handle
	Path() string
}

// Watcher refreshes a handle-backed source whenever its file changes on disk.
type Watcher struct {
	src  *Source
	path string
	w    *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// Watch starts watching the file behind src. Watching is optional: when it
// cannot be set up the failure is logged and nil is returned.
func Watch(src *Source) *Watcher {
	w, err := newWatcher(src)
	if err != nil {
		logger.Warnf("watch %s: %s, changes will not be picked up", src.Name(), err)
		return nil
	}
	src.Attach(w)
	return w
}

func newWatcher(src *Source) (*Watcher, error) {
	h, ok := src.Handle().(pathHandle)
	if !ok || h.Path() == "" {
		return nil, errors.New("source has no file system path")
	}
	path, err := filepath.Abs(h.Path())
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// the directory sees renames and re-creation of the file
	if err = fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, errors.Wrapf(err, "add %s", filepath.Dir(path))
	}
	w := &Watcher{src: src, path: path, w: fw, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			logger.Debugf("%s: %s", w.path, ev.Op)
			if timer == nil {
				timer = time.NewTimer(settleDelay)
			} else {
				timer.Reset(settleDelay)
			}
			fire = timer.C
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			logger.Warnf("watch %s: %s", w.path, err)
		case <-fire:
			fire = nil
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := w.src.Refresh(ctx); err != nil {
				logger.Debugf("refresh %s: %s", w.path, err)
			}
			cancel()
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.w.Close()
	})
	return err
}
