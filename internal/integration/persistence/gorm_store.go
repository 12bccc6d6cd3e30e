package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finance-tracker/txcache/internal/application/adapter"
	"github.com/finance-tracker/txcache/internal/integration/persistence/model"
)

// gormStore implements the adapter.KeyValueStore interface on a SQL table.
// The same store serves SQLite on device and a shared Postgres.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new SQL-backed key-value store.
func NewGormStore(db *gorm.DB) adapter.KeyValueStore {
	return &gormStore{
		db: db,
	}
}

// Get retrieves the value stored under key.
func (s *gormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry model.CacheEntryModel
	result := s.db.WithContext(ctx).Where(&model.CacheEntryModel{Key: key}).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, result.Error)
	}
	return entry.Value, true, nil
}

// Set inserts or replaces the value stored under key.
func (s *gormStore) Set(ctx context.Context, key string, value []byte) error {
	entry := model.CacheEntryModel{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry)
	if result.Error != nil {
		return fmt.Errorf("failed to set %s: %w", key, result.Error)
	}
	return nil
}

// Delete removes key.
func (s *gormStore) Delete(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Where(&model.CacheEntryModel{Key: key}).Delete(&model.CacheEntryModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", key, result.Error)
	}
	return nil
}
