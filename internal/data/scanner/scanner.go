// Package scanner finds event log files and fingerprints them so unchanged
// files can be skipped on resync.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clauderank/claude-rank/internal/util"
)

// FileScanner scans files in the specified directory
type FileScanner struct {
	baseDir string
	pattern string
}

// FileRecord describes one discovered event log file.
type FileRecord struct {
	Path        string
	Size        int64
	ModTime     int64
	Inode       uint64
	Fingerprint string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
		pattern: "*.jsonl",
	}
}

// Scan walks the directory and returns all .jsonl file paths
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
		if strings.HasSuffix(strings.ToLower(path), ".jsonl") {
			files = append(files, path)
		}

		return nil
	})

	duration := time.Since(start)
	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d JSONL files",
		duration, dirCount, totalCount, len(files)))

	return files, err
}

// ScanWithFingerprints returns a FileRecord per discovered file. Files whose
// stat or fingerprint fails are skipped with a log line rather than failing
// the scan.
func (s *FileScanner) ScanWithFingerprints() ([]FileRecord, error) {
	paths, err := s.Scan()
	if err != nil {
		return nil, err
	}

	records := make([]FileRecord, 0, len(paths))
	for _, path := range paths {
		info, err := util.GetFileInfo(path)
		if err != nil {
			util.LogWarnf("Skip file (stat failed): %s - %v", path, err)
			continue
		}
		fingerprint, err := util.CalculateFileFingerprint(path)
		if err != nil {
			util.LogWarnf("Skip file (fingerprint failed): %s - %v", path, err)
			continue
		}
		records = append(records, FileRecord{
			Path:        path,
			Size:        info.Size,
			ModTime:     info.ModTime,
			Inode:       info.Inode,
			Fingerprint: fingerprint,
		})
	}
	return records, nil
}
