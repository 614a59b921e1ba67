// pkg/source/accesslog.go

package source

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// operations slower than this are logged even without readers
const slowOperation = time.Second * 10

type logReader struct {
	buffer chan string
}

var (
	readerLock sync.Mutex
	readers    = make(map[uint64]*logReader)
	lastReader atomic.Uint64
)

// logit records one finished operation of s for the access log readers.
func logit(s *Source, used time.Duration, format string, args ...interface{}) {
	readerLock.Lock()
	defer readerLock.Unlock()
	if len(readers) == 0 && used < slowOperation {
		return
	}

	op := fmt.Sprintf(format, args...)
	op += fmt.Sprintf(" <%.6f>", used.Seconds())
	if used >= slowOperation {
		logger.Infof("slow operation on %s: %s", s.name, op)
	}
	line := fmt.Sprintf("%s [%s] %s", time.Now().Format("2006.01.02 15:04:05.000000"), s.name, op)
	for _, r := range readers {
		select {
		case r.buffer <- line:
		default:
		}
	}
}

// OpenAccessLog subscribes to the operations of all sources. Lines are
// dropped while the reader falls behind.
func OpenAccessLog() (uint64, <-chan string) {
	readerLock.Lock()
	defer readerLock.Unlock()
	id := lastReader.Add(1)
	r := &logReader{buffer: make(chan string, 10240)}
	readers[id] = r
	return id, r.buffer
}

func CloseAccessLog(id uint64) {
	readerLock.Lock()
	defer readerLock.Unlock()
	delete(readers, id)
}
