// Package cache stores formatted output keyed by source and settings so that
// unchanged files are not parsed twice.
package cache

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	// Database drivers, selected by cache.driver
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sambeau/luna/config"
	lerrors "github.com/sambeau/luna/pkg/luna/errors"
)

const (
	defaultMaxSize     = 10 * 1024 * 1024 // 10MB
	defaultTruncatePct = 25
)

// Store is a persistent map from cache keys to formatted source.
type Store struct {
	mu          sync.RWMutex
	db          *sql.DB
	dialect     dialect
	path        string
	maxSize     int64 // Maximum compressed payload in bytes
	truncatePct int   // Percentage of oldest entries to delete when full

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Stats describes the contents of a store.
type Stats struct {
	Driver  string
	Path    string
	Entries int
	Bytes   int64 // compressed payload
	Raw     int64 // uncompressed payload
	MaxSize int64
}

// Open opens or creates the cache described by cfg.
// For sqlite an empty path means "cache.db" in baseDir.
func Open(baseDir string, cfg config.CacheConfig) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite"
	}
	d, ok := dialects[driver]
	if !ok {
		return nil, lerrors.New("CACHE-0002", map[string]any{"Driver": driver})
	}

	path, dsn := cfg.DSN, cfg.DSN
	if driver == "sqlite" {
		path = cfg.Path
		if path == "" {
			path = filepath.Join(baseDir, "cache.db")
		} else if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, lerrors.Wrap("CACHE-0001", err, map[string]any{"Path": path})
		}
		// WAL mode lets concurrent luna processes share the file
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	maxSize, err := config.ParseSize(cfg.MaxSize)
	if err != nil {
		return nil, lerrors.Wrap("CACHE-0001", err, map[string]any{"Path": path})
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, lerrors.Wrap("CACHE-0001", err, map[string]any{"Path": path})
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, lerrors.Wrap("CACHE-0001", err, map[string]any{"Path": path})
	}

	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithZeroFrames(true))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	s := &Store{
		db:          db,
		dialect:     d,
		path:        path,
		maxSize:     maxSize,
		truncatePct: cfg.TruncatePct,
		encoder:     encoder,
		decoder:     decoder,
	}

	// Set defaults
	if s.maxSize == 0 {
		s.maxSize = defaultMaxSize
	}
	if s.truncatePct == 0 {
		s.truncatePct = defaultTruncatePct
	}

	if _, err := db.Exec(d.schema); err != nil {
		s.Close()
		return nil, lerrors.Wrap("CACHE-0001", fmt.Errorf("creating schema: %w", err), map[string]any{"Path": path})
	}

	return s, nil
}

// Key hashes its parts into a cache key. Parts are length-prefixed, so
// ("ab", "c") and ("a", "bc") give different keys.
func Key(parts ...string) string {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRow(s.dialect.rebind("SELECT value FROM luna_cache WHERE hash = ?"), key).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache entry: %w", err)
	}

	value, err := s.decoder.DecodeAll(payload, nil)
	if err != nil {
		return "", false, lerrors.Wrap("CACHE-0003", err, map[string]any{"Key": key})
	}
	return string(value), true, nil
}

// Put stores value under key, replacing any previous value. The oldest
// entries are dropped first when the store has grown past its size limit.
func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.maybeAutoTruncate(); err != nil {
		// Report truncation errors but don't fail the write
		fmt.Fprintf(os.Stderr, "[WARN] cache truncation failed: %v\n", err)
	}

	payload := s.encoder.EncodeAll([]byte(value), nil)
	_, err := s.db.Exec(s.dialect.rebind(s.dialect.upsert),
		key, payload, len(payload), len(value), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Count returns the number of entries.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM luna_cache").Scan(&count)
	return count, err
}

// Stats summarises the store.
func (s *Store) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Driver: s.dialect.driver, Path: s.path, MaxSize: s.maxSize}
	err := s.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(size), 0), COALESCE(SUM(raw_size), 0) FROM luna_cache").
		Scan(&st.Entries, &st.Bytes, &st.Raw)
	if err != nil {
		return st, fmt.Errorf("reading cache stats: %w", err)
	}
	return st, nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM luna_cache")
	return err
}

// maybeAutoTruncate deletes the oldest entries once the payload reaches maxSize.
// Must be called with lock held.
func (s *Store) maybeAutoTruncate() error {
	var total, size int64
	if err := s.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(size), 0) FROM luna_cache").Scan(&total, &size); err != nil {
		return err
	}
	if total == 0 || size < s.maxSize {
		return nil
	}

	deleteCount := (total * int64(s.truncatePct)) / 100
	if deleteCount == 0 {
		deleteCount = 1
	}

	// Collect first: mysql cannot LIMIT inside an IN subquery
	rows, err := s.db.Query(s.dialect.rebind("SELECT hash FROM luna_cache ORDER BY stored ASC, hash ASC LIMIT ?"), deleteCount)
	if err != nil {
		return fmt.Errorf("selecting entries to truncate: %w", err)
	}
	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			rows.Close()
			return err
		}
		hashes = append(hashes, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt := s.dialect.rebind("DELETE FROM luna_cache WHERE hash = ?")
	for _, h := range hashes {
		if _, err := tx.Exec(stmt, h); err != nil {
			tx.Rollback()
			return fmt.Errorf("truncating cache: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.decoder.Close()
	s.encoder.Close()
	return s.db.Close()
}

// Path returns the path to the database file, or the DSN for server drivers.
func (s *Store) Path() string {
	return s.path
}

// dialect holds the SQL that differs between drivers.
type dialect struct {
	driver   string
	numbered bool // $1, $2 placeholders instead of ?
	schema   string
	upsert   string
}

var dialects = map[string]dialect{
	"sqlite": {
		driver: "sqlite",
		schema: `
			CREATE TABLE IF NOT EXISTS luna_cache (
				hash TEXT PRIMARY KEY,
				value BLOB NOT NULL,
				size INTEGER NOT NULL,
				raw_size INTEGER NOT NULL,
				stored INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_luna_cache_stored ON luna_cache(stored);
		`,
		upsert: `INSERT INTO luna_cache (hash, value, size, raw_size, stored) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(hash) DO UPDATE SET value = excluded.value, size = excluded.size,
			raw_size = excluded.raw_size, stored = excluded.stored`,
	},
	"postgres": {
		driver:   "postgres",
		numbered: true,
		schema: `
			CREATE TABLE IF NOT EXISTS luna_cache (
				hash TEXT PRIMARY KEY,
				value BYTEA NOT NULL,
				size BIGINT NOT NULL,
				raw_size BIGINT NOT NULL,
				stored BIGINT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_luna_cache_stored ON luna_cache(stored);
		`,
		upsert: `INSERT INTO luna_cache (hash, value, size, raw_size, stored) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (hash) DO UPDATE SET value = EXCLUDED.value, size = EXCLUDED.size,
			raw_size = EXCLUDED.raw_size, stored = EXCLUDED.stored`,
	},
	"mysql": {
		driver: "mysql",
		schema: `
			CREATE TABLE IF NOT EXISTS luna_cache (
				hash VARCHAR(64) PRIMARY KEY,
				value LONGBLOB NOT NULL,
				size BIGINT NOT NULL,
				raw_size BIGINT NOT NULL,
				stored BIGINT NOT NULL,
				INDEX idx_luna_cache_stored (stored)
			)
		`,
		upsert: `INSERT INTO luna_cache (hash, value, size, raw_size, stored) VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE value = VALUES(value), size = VALUES(size),
			raw_size = VALUES(raw_size), stored = VALUES(stored)`,
	},
}

// rebind rewrites ? placeholders for drivers that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
