// Package cache stores translations keyed by source text, provider identity
// and language pair. Every entry carries a checksum of its source text which
// is verified again on each read, so an entry is only returned for the exact
// text it was created from.
//
// Backends: file (one JSON document per key), memory, sqlite and postgres.
package cache
