package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"killick/pkg/db"
)

// SQLiteStore implements Store on the persistent_state table.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	d, err := db.Init(path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(d), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool, error) {
	var val sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return val.String, true, nil
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	now := time.Now()
	query := `INSERT INTO persistent_state (key, value, created_at, updated_at)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(key) DO UPDATE SET
			  value=excluded.value,
			  updated_at=excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, val, now, now); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
