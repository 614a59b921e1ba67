// pkg/utils/rusage.go

package utils

import "golang.org/x/sys/unix"

// Rusage is a snapshot of the CPU time used by this process.
type Rusage struct {
	unix.Rusage
}

func (ru *Rusage) GetUtime() float64 {
	return float64(ru.Utime.Sec) + float64(ru.Utime.Usec)/1e6
}

func (ru *Rusage) GetStime() float64 {
	return float64(ru.Stime.Sec) + float64(ru.Stime.Usec)/1e6
}

// Since returns the user and system CPU seconds spent after ru was taken.
func (ru *Rusage) Since() (user, sys float64) {
	now := GetRusage()
	return now.GetUtime() - ru.GetUtime(), now.GetStime() - ru.GetStime()
}

func GetRusage() *Rusage {
	var ru unix.Rusage
	_ = unix.Getrusage(unix.RUSAGE_SELF, &ru)
	return &Rusage{ru}
}
