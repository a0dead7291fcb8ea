// Package store provides a SQLite-backed cache of classified outlines, keyed
// by path and file identity (mtime + size), fronted by an in-process LRU.
// Only the directory-search path uses it; single-file reads stay stateless.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/althame/lens/internal/syntax"
)

const schema = `
CREATE TABLE IF NOT EXISTS outline_cache (
	path     TEXT PRIMARY KEY,
	mtime    INTEGER NOT NULL,
	size     INTEGER NOT NULL,
	payload  TEXT NOT NULL,
	created  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outline_created ON outline_cache(created);
`

type memKey struct {
	path  string
	mtime int64
	size  int64
}

// Cache is a two-tier outline cache: LRU in memory, SQLite on disk. All
// methods are safe on a nil receiver (they behave as a permanent miss), so
// callers can run with caching disabled without branching.
type Cache struct {
	mu  sync.Mutex
	db  *sql.DB
	mem *lru.Cache[memKey, *syntax.Outline]
	ttl time.Duration
}

// Open creates or opens the cache database at dbPath. lruSize bounds the
// in-memory tier; ttl controls how long disk entries remain before purge.
func Open(dbPath string, lruSize int, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open outline cache db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	mem, err := lru.New[memKey, *syntax.Outline](lruSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create lru: %w", err)
	}

	c := &Cache{db: db, mem: mem, ttl: ttl}
	c.purgeStale()
	return c, nil
}

// Close closes the database. Safe on a nil receiver.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached outline for path if the stored mtime and size still
// match, or (nil, false) on miss. Safe on a nil receiver.
func (c *Cache) Get(path string, mtime, size int64) (*syntax.Outline, bool) {
	if c == nil {
		return nil, false
	}
	key := memKey{path, mtime, size}
	if out, ok := c.mem.Get(key); ok {
		return out, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var payload string
	err := c.db.QueryRow(
		"SELECT payload FROM outline_cache WHERE path = ? AND mtime = ? AND size = ?",
		path, mtime, size,
	).Scan(&payload)
	if err != nil {
		return nil, false
	}

	var out syntax.Outline
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("corrupt outline cache entry, dropping")
		c.db.Exec("DELETE FROM outline_cache WHERE path = ?", path) //nolint:errcheck // best-effort cleanup
		return nil, false
	}
	c.mem.Add(key, &out)
	return &out, true
}

// Set stores an outline for path. A newer mtime replaces any older entry.
// No-op on a nil receiver.
func (c *Cache) Set(path string, mtime, size int64, out *syntax.Outline) {
	if c == nil || out == nil {
		return
	}
	payload, err := json.Marshal(out)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to encode outline for cache")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO outline_cache (path, mtime, size, payload, created) VALUES (?, ?, ?, ?, ?)",
		path, mtime, size, string(payload), time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to cache outline")
	}
	c.mem.Add(memKey{path, mtime, size}, out)
}

// purgeStale removes disk entries older than the TTL.
func (c *Cache) purgeStale() {
	if c.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-c.ttl).Unix()
	res, err := c.db.Exec("DELETE FROM outline_cache WHERE created <= ?", cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("failed to purge stale outline cache")
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info().Int64("deleted", n).Msg("purged stale outline cache entries")
	}
}
