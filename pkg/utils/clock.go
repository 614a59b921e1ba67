// pkg/utils/clock.go

package utils

import "time"

var started = time.Now()

// Clock is the monotonic time since the process started.
func Clock() time.Duration {
	return time.Since(started)
}

// Since is the time elapsed after a previous Clock reading.
func Since(start time.Duration) time.Duration {
	return Clock() - start
}
