package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown cache backend")

// Backend is a concurrency-safe translation store
type Backend interface {
	// Get returns the cached translation. Every call counts as a request
	// and as either a hit or a miss.
	Get(source, identity, langPair string) (string, bool)
	// Set stores a translation, replacing any existing entry for the key
	Set(source, translation, identity, langPair string) error
	// Clear removes every entry and resets the statistics
	Clear() error
	// Stats returns the counters and the current storage size
	Stats() Stats
}

// Stats holds cache usage counters
type Stats struct {
	TotalRequests  int64 `json:"total_requests"`
	CacheHits      int64 `json:"cache_hits"`
	CacheMisses    int64 `json:"cache_misses"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
}

// HitRate returns hits as a percentage of requests
func (s Stats) HitRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.TotalRequests) * 100
}

// Entry is the stored form of one translation
type Entry struct {
	Source           string    `json:"source"`
	Translation      string    `json:"translation"`
	ProviderIdentity string    `json:"provider_identity"`
	LanguagePair     string    `json:"language_pair"`
	CreatedAt        time.Time `json:"created_at"`
	Checksum         string    `json:"checksum"`
}

// NewEntry builds an entry with its checksum and creation time set
func NewEntry(source, translation, identity, langPair string) Entry {
	return Entry{
		Source:           source,
		Translation:      translation,
		ProviderIdentity: identity,
		LanguagePair:     langPair,
		CreatedAt:        time.Now().UTC(),
		Checksum:         Checksum(source),
	}
}

// Valid reports whether the entry was created from source
func (e Entry) Valid(source string) bool {
	return e.Checksum == Checksum(source)
}

// Key returns the hex SHA-256 of source, identity and language pair
func Key(source, identity, langPair string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte(identity))
	h.Write([]byte(langPair))
	return hex.EncodeToString(h.Sum(nil))
}

// Checksum returns the hex SHA-256 of the source text
func Checksum(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// LanguagePair formats the language pair part of a cache key
func LanguagePair(source, target string) string {
	return source + "-" + target
}

// Error describes a failed cache operation
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// counters tracks request statistics shared by all backends
type counters struct {
	requests atomic.Int64
	hits     atomic.Int64
	misses   atomic.Int64
}

func (c *counters) record(hit bool) {
	c.requests.Add(1)
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}

func (c *counters) reset() {
	c.requests.Store(0)
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *counters) snapshot(size int64) Stats {
	return Stats{
		TotalRequests:  c.requests.Load(),
		CacheHits:      c.hits.Load(),
		CacheMisses:    c.misses.Load(),
		TotalSizeBytes: size,
	}
}
