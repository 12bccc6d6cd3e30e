package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"

	"github.com/finance-tracker/txcache/config"
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// NewSQLiteConnection opens the on-device SQLite database, creating its directory if needed.
func NewSQLiteConnection(cfg *config.SQLiteConfig) (*Database, error) {
	if cfg.Path != memoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create SQLite directory %s: %w", dir, err)
			}
		}
	}

	// SQLite allows one writer at a time
	database, err := open(sqlite.Open(cfg.Path), "sqlite", pool{maxOpen: 1})
	if err != nil {
		return nil, err
	}

	slog.Info("Database connection established", "driver", "sqlite", "path", cfg.Path)
	return database, nil
}
