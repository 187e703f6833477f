//go:build darwin

package locate

import (
	"os"
	"syscall"
	"time"
)

// fileCreateTime returns the file's birth time, which macOS records.
func fileCreateTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	}
	return info.ModTime()
}
