package legacy

import (
	"time"

	"golang.org/x/sys/unix"
)

func birthTime(path string, fallback time.Time) time.Time {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err != nil {
		return fallback
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return fallback
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
