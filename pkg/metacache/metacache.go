// Package metacache keeps extracted photo metadata in sqlite so that rescans
// only run exiftool on files that changed.
package metacache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"k8s.io/klog/v2"
	_ "modernc.org/sqlite"

	"github.com/tstromberg/brickwall/pkg/photo"
)

const schema = `
CREATE TABLE IF NOT EXISTS photos (
	path     TEXT PRIMARY KEY,
	mod_time INTEGER NOT NULL,
	size     INTEGER NOT NULL,
	taken    INTEGER NOT NULL,
	data     TEXT NOT NULL
);`

// Cache is a sqlite-backed photo.Cache.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) a cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached photo for path if it was stored for the same modification time and size.
func (c *Cache) Lookup(path string, modTime time.Time, size int64) (*photo.Photo, bool) {
	var (
		data  string
		taken int64
	)
	err := c.db.QueryRow(`SELECT data, taken FROM photos WHERE path = ? AND mod_time = ? AND size = ?`,
		path, modTime.UnixNano(), size).Scan(&data, &taken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		klog.Warningf("cache lookup %s: %v", path, err)
		return nil, false
	}

	p := &photo.Photo{}
	if err := json.Unmarshal([]byte(data), p); err != nil {
		klog.Warningf("cache decode %s: %v", path, err)
		return nil, false
	}
	if taken != 0 {
		p.Taken = time.Unix(0, taken).UTC()
	}
	p.ModTime = modTime
	return p, true
}

// Store records p, keyed by its source path.
func (c *Cache) Store(p *photo.Photo, size int64) error {
	bs, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	var taken int64
	if !p.Taken.IsZero() {
		taken = p.Taken.UnixNano()
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO photos (path, mod_time, size, taken, data) VALUES (?, ?, ?, ?, ?)`,
		p.Path, p.ModTime.UnixNano(), size, taken, string(bs))
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}
