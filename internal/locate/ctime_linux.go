//go:build linux

package locate

import (
	"os"
	"syscall"
	"time"
)

// fileCreateTime approximates a file's creation time. Linux stat does not
// expose birth time, so the inode change time stands in. It is never
// earlier than the true creation time, so at worst a session is missed,
// never double-counted.
func fileCreateTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return info.ModTime()
}
