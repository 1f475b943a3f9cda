//go:build !linux

package util

import "os"

// GetFileInfo falls back to os.Stat; inode and birth time are left zero.
func GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
	}, nil
}
