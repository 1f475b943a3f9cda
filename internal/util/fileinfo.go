package util

import "time"

// FileInfo contains the file metadata timeline providers and caches rely on.
// BirthTime is zero when the platform or filesystem does not record it.
type FileInfo struct {
	ModTime   time.Time
	BirthTime time.Time
	Size      int64
	Inode     uint64
}
