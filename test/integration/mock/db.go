package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var once sync.Once
var db *Db

type Db struct {
	DbConn *gorm.DB
	models []any
}

// NewDb opens a shared in-memory SQLite database with models migrated.
func NewDb(models ...any) *Db {
	once.Do(
		func() {
			db = open(models)
		},
	)

	return db
}

func open(models []any) *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}

	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	if err := dbConn.AutoMigrate(models...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return &Db{
		DbConn: dbConn,
		models: models,
	}
}

// ClearDB removes every row of every migrated model.
func (d *Db) ClearDB() error {
	for _, model := range d.models {
		if err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// HealthCheck reports whether the database answers a ping.
func (d *Db) HealthCheck() bool {
	sqlDB, err := d.DbConn.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}
