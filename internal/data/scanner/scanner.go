package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-timeline/internal/util"
)

// FileScanner finds journal files under a directory
type FileScanner struct {
	baseDir string
	pattern string
}

// NewFileScanner creates a scanner matching *.jsonl
func NewFileScanner(baseDir string) *FileScanner {
	return NewPatternScanner(baseDir, "*.jsonl")
}

// NewPatternScanner creates a scanner matching file names against a glob,
// case-insensitively
func NewPatternScanner(baseDir, pattern string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
		pattern: strings.ToLower(pattern),
	}
}

// Scan walks the directory and returns all matching file paths. Unreadable
// entries and a missing base directory are skipped, not reported.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		matched, matchErr := filepath.Match(s.pattern, strings.ToLower(info.Name()))
		if matchErr != nil {
			return matchErr
		}
		if matched {
			files = append(files, path)
		}

		return nil
	})

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d matching files",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, err
}
