// pkg/object/redis.go

package object

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"BinView/pkg/source"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// redisHandle reads a string value: redis://[user:pass@]host:port/db/key
type redisHandle struct {
	rdb *redis.Client
	key string
}

func newRedisHandle(u *url.URL) (source.Handle, error) {
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, errors.Errorf("invalid redis uri %s, want %s://host:port/db/key", u.Redacted(), u.Scheme)
	}
	addr := *u
	addr.Path = "/" + parts[0]
	addr.RawQuery = ""
	opt, err := redis.ParseURL(addr.String())
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", addr.Redacted())
	}
	if opt.Password == "" && os.Getenv("REDIS_PASSWORD") != "" {
		opt.Password = os.Getenv("REDIS_PASSWORD")
	}
	opt.MinRetryBackoff = time.Millisecond * 100
	opt.MaxRetryBackoff = time.Second * 10
	opt.ReadTimeout = time.Second * 30
	opt.WriteTimeout = time.Second * 5
	return &redisHandle{rdb: redis.NewClient(opt), key: parts[1]}, nil
}

func (h *redisHandle) Name() string {
	return baseName(h.key)
}

func (h *redisHandle) GetFile(ctx context.Context) (source.File, error) {
	n, err := h.rdb.Exists(ctx, h.key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "exists %s", h.key)
	}
	if n == 0 {
		return nil, errors.Errorf("key %s not found", h.key)
	}
	size, err := h.rdb.StrLen(ctx, h.key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "strlen %s", h.key)
	}
	return &redisFile{h: h, size: size}, nil
}

func (h *redisHandle) Close() error {
	return h.rdb.Close()
}

type redisFile struct {
	h    *redisHandle
	size int64
}

func (f *redisFile) Name() string { return f.h.Name() }
func (f *redisFile) Size() int64  { return f.size }
func (f *redisFile) Type() string { return source.TypeByName(f.h.key) }

func (f *redisFile) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off >= f.size {
		return 0, io.EOF
	}
	s, err := f.h.rdb.GetRange(ctx, f.h.key, off, off+int64(len(p))-1).Result()
	if err != nil {
		return 0, err
	}
	n := copy(p, s)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func init() {
	Register("redis", newRedisHandle)
	Register("rediss", newRedisHandle)
}
