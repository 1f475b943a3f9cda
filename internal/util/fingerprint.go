package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const fingerprintTailSize = 2048

// CalculateFileFingerprint calculates the CRC32 of the last 2KB of a file
func CalculateFileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	readSize := int64(fingerprintTailSize)
	if stat.Size() < readSize {
		readSize = stat.Size()
	}

	if _, err := file.Seek(-readSize, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, readSize)
	if _, err := io.ReadFull(file, data); err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
}
