package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileCache stores each entry as {key}.json inside a directory
type FileCache struct {
	dir string

	// mu excludes Clear from running alongside reads and writes
	mu    sync.RWMutex
	stats counters
}

// NewFileCache creates the cache directory if needed
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &Error{Op: "open", Err: fmt.Errorf("failed to create cache directory: %w", err)}
	}
	return &FileCache{dir: dir}, nil
}

// Entries counts the stored entries
func (c *FileCache) Entries() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, &Error{Op: "entries", Err: err}
	}
	n := 0
	for _, e := range dirEntries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			n++
		}
	}
	return n, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get implements Backend. Unreadable or invalid entries count as misses.
func (c *FileCache) Get(source, identity, langPair string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, err := c.read(Key(source, identity, langPair))
	hit := err == nil && entry.Valid(source)
	c.stats.record(hit)
	if !hit {
		return "", false
	}
	return entry.Translation, true
}

func (c *FileCache) read(key string) (Entry, error) {
	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return Entry{}, err
	}
	return decodeEntry(raw)
}

// Set implements Backend. The entry is written to a temporary file and
// renamed into place so readers never observe a partial document.
func (c *FileCache) Set(source, translation, identity, langPair string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := Key(source, identity, langPair)
	data, err := json.MarshalIndent(NewEntry(source, translation, identity, langPair), "", "  ")
	if err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}

	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &Error{Op: "set", Key: key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &Error{Op: "set", Key: key, Err: err}
	}
	if err := os.Rename(tmpName, c.path(key)); err != nil {
		os.Remove(tmpName)
		return &Error{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Clear implements Backend
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Error{Op: "clear", Err: err}
	}
	for _, e := range entries {
		if e.IsDir() || !isCacheFile(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &Error{Op: "clear", Err: err}
		}
	}

	c.stats.reset()
	return nil
}

// Stats implements Backend. The size is the sum of all entry files.
func (c *FileCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var size int64
	entries, _ := os.ReadDir(c.dir)
	for _, e := range entries {
		if e.IsDir() || !isCacheFile(e.Name()) {
			continue
		}
		if info, err := e.Info(); err == nil {
			size += info.Size()
		}
	}
	return c.stats.snapshot(size)
}

func isCacheFile(name string) bool {
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".tmp")
}
