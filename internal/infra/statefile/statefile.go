// Package statefile persists the whole application state as a single
// versioned snapshot row in SQLite. Every writer bumps the revision, and
// readers poll the revision to notice writes made by other processes —
// the local-first equivalent of a storage change notification.
package statefile

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the snapshot database. One DB per process; Save and Watch are
// safe to use concurrently.
type DB struct {
	db  *sql.DB
	log zerolog.Logger

	mu      sync.Mutex
	lastRev int64 // highest revision this process wrote
}

// migrations returns the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS state_snapshot (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			revision   INTEGER NOT NULL DEFAULT 0,
			payload    BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	}
}

// Open creates or opens the snapshot database under dir and applies the
// schema. The directory is created if missing.
func Open(dir string, log zerolog.Logger) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	path := filepath.Join(dir, "hearth.db")

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	// A single connection sidesteps SQLITE_BUSY between the poller and
	// the writer inside this process.
	db.SetMaxOpenConns(1)

	for _, stmt := range migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply migration: %w", err)
		}
	}
	log.Debug().Str("path", path).Msg("state db opened")
	return &DB{db: db, log: log}, nil
}

// Close releases the database handle.
func (d *DB) Close() error { return d.db.Close() }

// Save stores the snapshot and bumps the revision in one transaction.
// The new revision is remembered so the watcher can tell this process's
// writes apart from another writer's.
func (d *DB) Save(payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO state_snapshot (id, revision, payload, updated_at)
		VALUES (1, 1, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			revision   = revision + 1,
			payload    = excluded.payload,
			updated_at = datetime('now')
	`, payload)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	var rev int64
	if err := tx.QueryRow(`SELECT revision FROM state_snapshot WHERE id = 1`).Scan(&rev); err != nil {
		return fmt.Errorf("read snapshot revision: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	d.lastRev = rev
	return nil
}

// Load returns the stored snapshot, or nil when none exists yet.
func (d *DB) Load() ([]byte, error) {
	var payload []byte
	var rev int64
	err := d.db.QueryRow(`SELECT revision, payload FROM state_snapshot WHERE id = 1`).Scan(&rev, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	d.mu.Lock()
	if rev > d.lastRev {
		d.lastRev = rev
	}
	d.mu.Unlock()
	return payload, nil
}

// Revision returns the current snapshot revision, 0 when none exists.
func (d *DB) Revision() (int64, error) {
	var rev int64
	err := d.db.QueryRow(`SELECT revision FROM state_snapshot WHERE id = 1`).Scan(&rev)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return rev, nil
}

// Watch polls the snapshot revision until ctx is done and invokes fn
// with the payload of every revision written by another process. This
// process's own saves are skipped.
func (d *DB) Watch(ctx context.Context, interval time.Duration, fn func(payload []byte)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		rev, err := d.Revision()
		if err != nil {
			d.log.Warn().Err(err).Msg("snapshot revision poll failed")
			continue
		}

		d.mu.Lock()
		stale := rev > d.lastRev
		d.mu.Unlock()
		if !stale {
			continue
		}

		payload, err := d.Load()
		if err != nil {
			d.log.Warn().Err(err).Msg("snapshot reload failed")
			continue
		}
		d.log.Debug().Int64("revision", rev).Msg("external snapshot detected")
		fn(payload)
	}
}
