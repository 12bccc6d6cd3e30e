package db

import (
	"log/slog"

	"gorm.io/driver/postgres"

	"github.com/finance-tracker/txcache/config"
)

// NewPostgresConnection connects to a shared PostgreSQL cache database.
func NewPostgresConnection(cfg *config.DatabaseConfig) (*Database, error) {
	database, err := open(postgres.Open(cfg.URL), "postgres", pool{
		maxOpen:     cfg.MaxOpenConns,
		maxIdle:     cfg.MaxIdleConns,
		maxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Database connection established",
		"driver", "postgres",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)
	return database, nil
}
