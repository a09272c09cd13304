// Package db opens the SQLite file that backs the settings store.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB connection.
type DB struct {
	*sql.DB
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

// migrations run in order; PRAGMA user_version records how many have run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS persistent_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT ''
	)`,
	`ALTER TABLE persistent_state ADD COLUMN created_at DATETIME`,
	`ALTER TABLE persistent_state ADD COLUMN updated_at DATETIME`,
}

// Init opens path, creating its directory, and brings the schema up to date.
func Init(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// One writer at a time; SQLite would answer SQLITE_BUSY otherwise.
	conn.SetMaxOpenConns(1)

	d := &DB{conn}
	if err := d.setup(); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) setup() error {
	if err := d.Ping(); err != nil {
		return fmt.Errorf("failed to ping db: %w", err)
	}
	for _, p := range pragmas {
		if _, err := d.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return d.migrate()
}

// SchemaVersion returns how many migrations have been applied.
func (d *DB) SchemaVersion() (int, error) {
	var v int
	err := d.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

func (d *DB) migrate() error {
	version, err := d.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		tx, err := d.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version=%d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: failed to record version: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", i+1, err)
		}
	}
	return nil
}
