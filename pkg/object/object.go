// pkg/object/object.go

package object

import (
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"BinView/pkg/source"
	"BinView/pkg/utils"

	"github.com/pkg/errors"
)

var logger = utils.GetLogger("binview")

const defaultType = "application/octet-stream"

// Creator builds a handle from a parsed URI.
type Creator func(u *url.URL) (source.Handle, error)

var (
	mu       sync.Mutex
	creators = make(map[string]Creator)
)

// Register makes a handle kind available under the given URI scheme.
func Register(scheme string, c Creator) {
	mu.Lock()
	defer mu.Unlock()
	creators[strings.ToLower(scheme)] = c
}

// Schemes lists the registered URI schemes.
func Schemes() []string {
	mu.Lock()
	defer mu.Unlock()
	var s []string
	for k := range creators {
		s = append(s, k)
	}
	sort.Strings(s)
	return s
}

// CreateHandle returns a handle for uri. Plain paths are local files.
func CreateHandle(uri string) (source.Handle, error) {
	if !strings.Contains(uri, "://") {
		return source.NewPathHandle(uri), nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", uri)
	}
	mu.Lock()
	c, ok := creators[strings.ToLower(u.Scheme)]
	mu.Unlock()
	if !ok {
		return nil, errors.Errorf("unsupported scheme %q in %s", u.Scheme, uri)
	}
	return c(u)
}

func baseName(p string) string {
	if b := path.Base(p); b != "." && b != "/" {
		return b
	}
	return p
}

func init() {
	Register("file", func(u *url.URL) (source.Handle, error) {
		p := u.Path
		if u.Host != "" && u.Host != "localhost" {
			p = u.Host + p
		}
		if p == "" {
			return nil, errors.New("empty file path")
		}
		return source.NewPathHandle(p), nil
	})
}
