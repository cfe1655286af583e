package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend
type Options struct {
	Backend string
	// Dir is the directory for the file backend and the sqlite database
	Dir string
	// DSN is the postgres connection string
	DSN string
}

// DefaultDir returns the per-user translation cache directory
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "mdtranslate", "translations")
}

// Open creates the backend named in opts
func Open(opts Options) (Backend, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir()
	}

	switch opts.Backend {
	case "", BackendFile:
		return NewFileCache(dir)
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendSQLite:
		return NewSQLiteCache(filepath.Join(dir, "translations.db"))
	case BackendPostgres:
		return NewPostgresCache(opts.DSN)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

// Close releases backend resources when the backend holds any
func Close(b Backend) error {
	if c, ok := b.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Entries returns the number of stored entries when the backend can count
// them; ok is false otherwise
func Entries(b Backend) (n int, ok bool, err error) {
	c, ok := b.(interface{ Entries() (int, error) })
	if !ok {
		return 0, false, nil
	}
	n, err = c.Entries()
	return n, true, err
}
