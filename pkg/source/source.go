// pkg/source/source.go

package source

import (
	"context"
	"io"
	"sync"

	"BinView/pkg/chunk"
	"BinView/pkg/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

var logger = utils.GetLogger("binview")

var (
	// ErrAborted is reported by loads that were superseded, cancelled or
	// outlived their source. It is never logged as a failure.
	ErrAborted = errors.New("aborted")
	// ErrDisconnected is returned by operations on a disconnected source.
	ErrDisconnected = errors.New("source is disconnected")
)

// File is a resolved, readable snapshot of an input.
type File interface {
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	Name() string
	Size() int64
	Type() string
}

// Handle is a reference to a file on persistent storage. Its name is known
// upfront, the rest resolves through GetFile.
type Handle interface {
	Name() string
	GetFile(ctx context.Context) (File, error)
}

// Kind tells how a source holds its bytes.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindBuffer
	KindFile
	KindHandle
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBuffer:
		return "buffer"
	case KindFile:
		return "file"
	case KindHandle:
		return "handle"
	}
	return "unknown"
}

type State int32

const (
	Unresolved State = iota
	Ready
	Loading
	Disconnected
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Ready:
		return "ready"
	case Loading:
		return "loading"
	case Disconnected:
		return "disconnected"
	}
	return "unknown"
}

// load is the cancellation token of one EnsureRange call.
type load struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Source is a uniformly addressable byte array over an in-memory buffer, a
// file or a file-system handle. Chunked sources keep a bounded cache of
// chunks, filled by EnsureRange and read by ReadBytes.
type Source struct {
	mu    sync.Mutex
	id    uuid.UUID
	conf  Config
	kind  Kind
	state State

	name string
	typ  string
	size int64

	data   []byte
	file   File
	owned  bool // file came from the handle and is closed with the source
	handle Handle

	cache   *chunk.Cache
	current *load
	loading int

	ctx  context.Context
	stop context.CancelFunc

	resolving singleflight.Group // one GetFile at a time
	ready     chan struct{}
	readyOnce sync.Once

	listeners []func(*Source)
	attached  []io.Closer
}

func newSource(kind Kind, conf *Config) (*Source, error) {
	c := Default()
	if conf != nil {
		c = *conf
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Source{
		id:    uuid.New(),
		conf:  c,
		kind:  kind,
		cache: chunk.NewCache(c.MaxChunks),
		ctx:   ctx,
		stop:  stop,
		ready: make(chan struct{}),
	}, nil
}

// New builds a source from nil, []byte, string, File or Handle.
func New(input interface{}, conf *Config) (*Source, error) {
	switch v := input.(type) {
	case nil:
		return Empty(conf)
	case []byte:
		return FromBytes(v, "", conf)
	case string:
		return FromString(v, "", conf)
	case File:
		return FromFile(v, conf)
	case Handle:
		return FromHandle(v, conf)
	}
	return nil, errors.Errorf("unsupported input %T", input)
}

// Empty returns a ready source of size 0.
func Empty(conf *Config) (*Source, error) {
	s, err := newSource(KindEmpty, conf)
	if err != nil {
		return nil, err
	}
	s.setReady()
	return s, nil
}

// FromBytes wraps b, which must not be modified afterwards.
func FromBytes(b []byte, name string, conf *Config) (*Source, error) {
	s, err := newSource(KindBuffer, conf)
	if err != nil {
		return nil, err
	}
	s.data = b
	s.size = int64(len(b))
	s.name = name
	s.typ = "application/octet-stream"
	s.setReady()
	return s, nil
}

func FromString(str string, name string, conf *Config) (*Source, error) {
	s, err := FromBytes([]byte(str), name, conf)
	if err != nil {
		return nil, err
	}
	s.typ = "text/plain; charset=utf-8"
	return s, nil
}

// FromFile reads f chunk by chunk. The caller keeps ownership of f.
func FromFile(f File, conf *Config) (*Source, error) {
	s, err := newSource(KindFile, conf)
	if err != nil {
		return nil, err
	}
	s.file = f
	s.name = f.Name()
	s.size = f.Size()
	s.typ = f.Type()
	s.setReady()
	return s, nil
}

// FromHandle returns an unresolved source and resolves h in the background.
// Reads issued before the resolution completes fail instead of blocking.
func FromHandle(h Handle, conf *Config) (*Source, error) {
	s, err := newSource(KindHandle, conf)
	if err != nil {
		return nil, err
	}
	s.handle = h
	s.name = h.Name()
	go func() {
		_ = s.Resolve(s.ctx)
	}()
	return s, nil
}

func (s *Source) setReady() {
	s.state = Ready
	s.readyOnce.Do(func() { close(s.ready) })
}

// Ready is closed once the source has been resolved for the first time.
func (s *Source) Ready() <-chan struct{} {
	return s.ready
}

// Resolve fetches size and type from the handle. A failure is logged and
// leaves the source unresolved until a later Resolve succeeds.
func (s *Source) Resolve(ctx context.Context) error {
	if s.handle == nil {
		return nil
	}
	_, err, _ := s.resolving.Do("resolve", func() (interface{}, error) {
		start := utils.Clock()
		f, err := s.handle.GetFile(ctx)
		if err != nil {
			logit(s, utils.Since(start), "resolve: %s", err)
		} else {
			logit(s, utils.Since(start), "resolve: %d bytes", f.Size())
		}
		if err != nil {
			err = errors.Wrapf(err, "resolve %s", s.name)
			if ctx.Err() == nil {
				logger.Warnf("%s", err)
			}
			s.unresolve()
			return nil, err
		}
		return f, s.apply(f)
	})
	return err
}

// apply installs a freshly resolved file. Chunks of the previous file are
// dropped and its in-flight load aborted.
func (s *Source) apply(f File) error {
	s.mu.Lock()
	if s.state == Disconnected {
		s.mu.Unlock()
		closeFile(f)
		return ErrDisconnected
	}
	old := s.file
	if s.current != nil {
		s.current.cancel()
	}
	s.cache.Reset()
	s.file = f
	s.owned = true
	s.size = f.Size()
	s.typ = f.Type()
	if s.state == Unresolved {
		s.setReady()
	}
	s.mu.Unlock()

	logger.Debugf("resolved %s: %d bytes, %s", s.name, f.Size(), f.Type())
	if old != nil && old != f {
		closeFile(old)
	}
	return nil
}

func (s *Source) unresolve() {
	s.mu.Lock()
	if s.state == Disconnected || s.file == nil {
		s.mu.Unlock()
		return
	}
	old := s.file
	if s.current != nil {
		s.current.cancel()
	}
	s.cache.Reset()
	s.file = nil
	s.size = 0
	s.state = Unresolved
	s.mu.Unlock()
	closeFile(old)
}

func closeFile(f File) {
	if c, ok := f.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Debugf("close %s: %s", f.Name(), err)
		}
	}
}

// Refresh re-resolves the handle and then notifies the change listeners,
// whatever the outcome.
func (s *Source) Refresh(ctx context.Context) error {
	err := s.Resolve(ctx)
	s.notify()
	return err
}

// OnChange registers fn to be called after every re-resolution.
func (s *Source) OnChange(fn func(*Source)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Disconnected {
		s.listeners = append(s.listeners, fn)
	}
}

func (s *Source) notify() {
	s.mu.Lock()
	listeners := append([]func(*Source){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

// Attach ties c to the source lifetime, it is closed by Disconnect.
func (s *Source) Attach(c io.Closer) {
	s.mu.Lock()
	if s.state == Disconnected {
		s.mu.Unlock()
		_ = c.Close()
		return
	}
	s.attached = append(s.attached, c)
	s.mu.Unlock()
}

// Disconnect aborts in-flight loads, drops the cache and closes everything
// attached. The source is unusable afterwards.
func (s *Source) Disconnect() {
	s.mu.Lock()
	if s.state == Disconnected {
		s.mu.Unlock()
		return
	}
	s.state = Disconnected
	s.stop()
	if s.current != nil {
		s.current.cancel()
		s.current = nil
	}
	s.cache.Reset()
	s.data = nil
	s.listeners = nil
	attached := s.attached
	s.attached = nil
	var owned File
	if s.owned {
		owned = s.file
	}
	s.file = nil
	s.mu.Unlock()

	for _, c := range attached {
		if err := c.Close(); err != nil {
			logger.Warnf("detach from %s: %s", s.name, err)
		}
	}
	if owned != nil {
		closeFile(owned)
	}
	logger.Debugf("source %s (%s) disconnected", s.name, s.id)
}

func (s *Source) ID() string {
	return s.id.String()
}

func (s *Source) Kind() Kind {
	return s.kind
}

func (s *Source) Config() Config {
	return s.conf
}

func (s *Source) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Size returns 0 until the source is resolved.
func (s *Source) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *Source) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *Source) Type() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typ
}

// Handle returns the handle the source was built from, if any.
func (s *Source) Handle() Handle {
	return s.handle
}

// File returns the currently resolved file, nil for buffers and unresolved
// handles.
func (s *Source) File() File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// Stats is a snapshot of the source and its cache.
type Stats struct {
	ID          string
	Kind        Kind
	State       State
	Size        int64
	Chunks      int
	CachedBytes int64
	Hits        int64
	Misses      int64
}

func (s *Source) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	hits, misses := s.cache.Stats()
	return Stats{
		ID:          s.id.String(),
		Kind:        s.kind,
		State:       s.state,
		Size:        s.size,
		Chunks:      s.cache.Len(),
		CachedBytes: s.cache.UsedMemory(),
		Hits:        hits,
		Misses:      misses,
	}
}
