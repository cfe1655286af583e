package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS translations (
	key text PRIMARY KEY,
	source text NOT NULL,
	translation text NOT NULL,
	provider_identity text NOT NULL,
	language_pair text NOT NULL,
	created_at integer NOT NULL,
	checksum text NOT NULL
)`

// SQLiteCache stores entries in a single SQLite database file
type SQLiteCache struct {
	db    *sql.DB
	stats counters
}

// NewSQLiteCache opens or creates the database at path
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &Error{Op: "open", Err: fmt.Errorf("failed to create cache directory: %w", err)}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	// a single connection serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, &Error{Op: "open", Err: fmt.Errorf("failed to create tables: %w", err)}
	}
	return &SQLiteCache{db: db}, nil
}

// Close releases the database handle
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get implements Backend
func (c *SQLiteCache) Get(source, identity, langPair string) (string, bool) {
	var translation, checksum string
	err := c.db.QueryRow(
		"SELECT translation, checksum FROM translations WHERE key = ?",
		Key(source, identity, langPair),
	).Scan(&translation, &checksum)

	hit := err == nil && checksum == Checksum(source)
	c.stats.record(hit)
	if !hit {
		return "", false
	}
	return translation, true
}

// Set implements Backend
func (c *SQLiteCache) Set(source, translation, identity, langPair string) error {
	e := NewEntry(source, translation, identity, langPair)
	key := Key(source, identity, langPair)

	_, err := c.db.Exec(`INSERT INTO translations
		(key, source, translation, provider_identity, language_pair, created_at, checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			source = excluded.source,
			translation = excluded.translation,
			provider_identity = excluded.provider_identity,
			language_pair = excluded.language_pair,
			created_at = excluded.created_at,
			checksum = excluded.checksum`,
		key, e.Source, e.Translation, e.ProviderIdentity, e.LanguagePair, e.CreatedAt.Unix(), e.Checksum)
	if err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Clear implements Backend
func (c *SQLiteCache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM translations"); err != nil {
		return &Error{Op: "clear", Err: err}
	}
	// reclaim pages so the reported size drops
	if _, err := c.db.Exec("VACUUM"); err != nil {
		return &Error{Op: "clear", Err: err}
	}
	c.stats.reset()
	return nil
}

// Stats implements Backend. The size is the database page usage.
func (c *SQLiteCache) Stats() Stats {
	var pageCount, pageSize int64
	if err := c.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		pageCount = 0
	}
	if err := c.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		pageSize = 0
	}
	return c.stats.snapshot(pageCount * pageSize)
}

// Entries returns the number of stored translations
func (c *SQLiteCache) Entries() (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM translations").Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

