package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/txcache/config"
	"github.com/finance-tracker/txcache/internal/integration/persistence/model"
)

func TestNewSQLiteConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	database, err := NewSQLiteConnection(&config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	assert.True(t, database.HealthCheck())
	assert.Equal(t, "sqlite", database.Driver())
	require.NoError(t, database.AutoMigrate(&model.CacheEntryModel{}))
	assert.True(t, database.DB().Migrator().HasTable(&model.CacheEntryModel{}))
	assert.FileExists(t, path)
}

func TestNewSQLiteConnection_InMemory(t *testing.T) {
	database, err := NewSQLiteConnection(&config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)

	assert.True(t, database.HealthCheck())
	require.NoError(t, database.Close())
}

func TestDatabase_HealthCheckAfterClose(t *testing.T) {
	database, err := NewSQLiteConnection(&config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Close())

	assert.False(t, database.HealthCheck())
}
