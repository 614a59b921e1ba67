// pkg/worker/worker.go

package worker

import (
	"context"
	"io"
	"sync"

	"BinView/pkg/source"
	"BinView/pkg/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var logger = utils.GetLogger("binview")

// ErrClosed is returned for requests to a stopped worker.
var ErrClosed = errors.New("worker is closed")

type op uint8

const (
	opOpen op = iota
	opSize
	opRead
)

func (o op) String() string {
	switch o {
	case opOpen:
		return "open"
	case opSize:
		return "size"
	case opRead:
		return "read"
	}
	return "unknown"
}

type request struct {
	id    uuid.UUID
	op    op
	ctx   context.Context
	input interface{}
	off   int64
	n     int
	reply chan response
}

type response struct {
	data []byte
	size int64
	err  error
}

// Worker serves reads from a goroutine that owns a source of its own, with
// a chunk cache independent from the caller's. Requests are handled one at a
// time in arrival order.
type Worker struct {
	conf source.Config
	reqs chan *request
	done chan struct{}
	exit chan struct{}
	once sync.Once

	src *source.Source // only touched by loop
}

// Start launches a worker using conf for its source.
func Start(conf source.Config) *Worker {
	w := &Worker{
		conf: conf,
		reqs: make(chan *request),
		done: make(chan struct{}),
		exit: make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	defer close(w.exit)
	for {
		select {
		case <-w.done:
			if w.src != nil {
				w.src.Disconnect()
			}
			return
		case req := <-w.reqs:
			req.reply <- w.serve(req)
		}
	}
}

func (w *Worker) serve(req *request) (resp response) {
	defer func() {
		if r := recover(); r != nil {
			resp = response{err: errors.Errorf("worker panic: %v", r)}
		}
		if resp.err != nil {
			logger.Debugf("worker request %s (%s) failed: %s", req.id, req.op, resp.err)
		}
	}()
	if err := req.ctx.Err(); err != nil {
		return response{err: err}
	}
	switch req.op {
	case opOpen:
		return response{err: w.open(req.ctx, req.input)}
	case opSize:
		if w.src == nil {
			return response{err: errors.New("no file opened")}
		}
		if w.src.State() == source.Unresolved {
			return response{err: errors.Errorf("%s is not resolved", w.src.Name())}
		}
		return response{size: w.src.Size()}
	case opRead:
		if w.src == nil {
			return response{err: errors.New("no file opened")}
		}
		buf := make([]byte, req.n)
		n, err := w.src.ReadAt(req.ctx, buf, req.off)
		if err != nil && !(n > 0 && errors.Is(err, io.EOF)) {
			return response{err: err}
		}
		return response{data: buf[:n]}
	}
	return response{err: errors.Errorf("unknown request %d", req.op)}
}

func (w *Worker) open(ctx context.Context, input interface{}) error {
	conf := w.conf
	s, err := source.New(input, &conf)
	if err != nil {
		return err
	}
	if s.Kind() == source.KindHandle {
		if err = s.Resolve(ctx); err != nil {
			s.Disconnect()
			return err
		}
	}
	if w.src != nil {
		w.src.Disconnect()
	}
	w.src = s
	logger.Debugf("worker opened %s (%d bytes)", s.Name(), s.Size())
	return nil
}

func (w *Worker) call(ctx context.Context, req *request) (response, error) {
	req.id = uuid.New()
	req.ctx = ctx
	req.reply = make(chan response, 1)
	select {
	case w.reqs <- req:
	case <-w.done:
		return response{}, ErrClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp, resp.err
	case <-w.exit:
		return response{}, ErrClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}

// Open makes the worker read from input, a source.File or source.Handle.
func (w *Worker) Open(ctx context.Context, input interface{}) error {
	_, err := w.call(ctx, &request{op: opOpen, input: input})
	return err
}

func (w *Worker) Size(ctx context.Context) (int64, error) {
	resp, err := w.call(ctx, &request{op: opSize})
	return resp.size, err
}

// Read returns up to n bytes at off, short only at the end of the file.
func (w *Worker) Read(ctx context.Context, off int64, n int) ([]byte, error) {
	if off < 0 || n < 0 {
		return nil, errors.Errorf("invalid read of %d bytes at %d", n, off)
	}
	resp, err := w.call(ctx, &request{op: opRead, off: off, n: n})
	return resp.data, err
}

// Close stops the worker and disconnects its source.
func (w *Worker) Close() error {
	w.once.Do(func() {
		close(w.done)
		<-w.exit
	})
	return nil
}
