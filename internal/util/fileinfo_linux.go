//go:build linux

package util

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// GetFileInfo stats path with statx so the birth time is available on
// filesystems that record it, falling back to stat on older kernels.
func GetFileInfo(path string) (*FileInfo, error) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT,
		unix.STATX_BASIC_STATS|unix.STATX_BTIME, &stx)
	if err == nil {
		info := &FileInfo{
			ModTime: time.Unix(stx.Mtime.Sec, int64(stx.Mtime.Nsec)),
			Size:    int64(stx.Size),
			Inode:   stx.Ino,
		}
		if stx.Mask&unix.STATX_BTIME != 0 {
			info.BirthTime = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
		}
		return info, nil
	}
	if !errors.Is(err, unix.ENOSYS) {
		return nil, err
	}

	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, err
	}
	sec, nsec := st.Mtim.Unix()
	return &FileInfo{
		ModTime: time.Unix(sec, nsec),
		Size:    st.Size,
		Inode:   uint64(st.Ino),
	}, nil
}
