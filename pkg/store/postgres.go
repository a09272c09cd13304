package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a persistent_state table in PostgreSQL,
// for dashboards that share settings across several displays.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool. The table must already exist;
// OpenPostgres creates it.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects to dsn, pings the server and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := NewPostgresStore(pool)
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS persistent_state (
			key TEXT PRIMARY KEY,
			value TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ
		)
	`)
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetState(ctx context.Context, key string) (string, bool, error) {
	var val *string
	err := s.pool.QueryRow(ctx, `SELECT value FROM persistent_state WHERE key = $1`, key).Scan(&val)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: select state: %w", ErrUnavailable, err)
	}
	if val == nil {
		return "", true, nil
	}
	return *val, true, nil
}

func (s *PostgresStore) SetState(ctx context.Context, key, val string) error {
	query := `
		INSERT INTO persistent_state (key, value, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.pool.Exec(ctx, query, key, val); err != nil {
		return fmt.Errorf("%w: upsert state: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) DeleteState(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM persistent_state WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%w: delete state: %w", ErrUnavailable, err)
	}
	return nil
}
