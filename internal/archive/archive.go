package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveCache moves the translation cache directory into an archive
// directory next to it, named translations-<timestamp>. It returns the
// archive path. A fresh cache directory is created on the next run.
func ArchiveCache(cacheDir string) (string, error) {
	// Check if cache directory exists
	info, err := os.Stat(cacheDir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("cache directory does not exist: %s", cacheDir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat cache directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("cache path is not a directory: %s", cacheDir)
	}

	// Get parent directory and create archive path
	archiveDir := filepath.Join(filepath.Dir(cacheDir), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(cacheDir)
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, time.Now().Format("20060102-150405")))

	// Same second twice: fall back to microseconds
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, time.Now().Format("20060102-150405.000000")))
	}

	if err := os.Rename(cacheDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive cache directory: %w", err)
	}
	return archivePath, nil
}
