package store

import (
	"context"
	"fmt"
	"log/slog"

	"killick/pkg/config"
)

// Open returns the Store selected by cfg.Backend.
func Open(ctx context.Context, cfg *config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		slog.Info("Opening settings storage", "backend", cfg.Backend, "path", cfg.SQLitePath)
		return OpenSQLite(cfg.SQLitePath)
	case config.BackendPostgres:
		slog.Info("Opening settings storage", "backend", cfg.Backend)
		return OpenPostgres(ctx, cfg.PostgresDSN)
	case config.BackendMemory:
		slog.Warn("Using in-memory settings storage; settings will not survive a restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
