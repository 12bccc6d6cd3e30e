// Package db opens the SQL databases that can back the transaction cache.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectTimeout = 5 * time.Second
	healthTimeout  = 2 * time.Second
)

// Database is a GORM connection plus the name of the driver behind it.
type Database struct {
	db     *gorm.DB
	driver string
}

// pool is the connection pool shape applied right after opening.
// Zero values leave the database/sql defaults in place.
type pool struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// open connects through dialector, applies the pool and pings once.
func open(dialector gorm.Dialector, driver string, p pool) (*Database, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if p.maxOpen > 0 {
		sqlDB.SetMaxOpenConns(p.maxOpen)
	}
	if p.maxIdle > 0 {
		sqlDB.SetMaxIdleConns(p.maxIdle)
	}
	if p.maxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(p.maxLifetime)
	}

	database := &Database{db: conn, driver: driver}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return database, nil
}

// DB returns the underlying GORM database instance.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Driver names the SQL driver, "postgres" or "sqlite".
func (d *Database) Driver() string {
	return d.driver
}

// Ping checks that the database answers.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", d.driver, err)
	}
	return nil
}

// HealthCheck reports whether the database answers within a short timeout.
func (d *Database) HealthCheck() bool {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	if err := d.Ping(ctx); err != nil {
		slog.Error("Database health check failed", "driver", d.driver, "error", err)
		return false
	}
	return true
}

// Close closes the database connection.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close %s connection: %w", d.driver, err)
	}

	slog.Info("Database connection closed", "driver", d.driver)
	return nil
}

// AutoMigrate creates or updates the tables of the given models.
func (d *Database) AutoMigrate(models ...any) error {
	if err := d.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}
