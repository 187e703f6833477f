//go:build !linux && !darwin

package locate

import (
	"os"
	"time"
)

// fileCreateTime falls back to the modification time on platforms without
// an accessible creation time.
func fileCreateTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
