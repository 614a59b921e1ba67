// pkg/version/version.go

package version

import "fmt"

var (
	version      = "0.4.0-dev"
	revision     = "$Format:%h$"
	revisionDate = "$Format:%as$"
)

// Version returns the version in format - `VERSION (REVISIONDATE REVISION)`
// values are overridden with -ldflags at release builds
func Version() string {
	return fmt.Sprintf("%v (%v %v)", version, revisionDate, revision)
}

// UserAgent identifies binview to remote stores.
func UserAgent() (string, string) {
	return "binview", version
}
