// Package model defines database models for persistence layer.
package model

import "time"

// CacheEntryModel represents the cache_entries table in the database.
type CacheEntryModel struct {
	Key       string    `gorm:"type:varchar(255);primaryKey"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the CacheEntryModel.
func (CacheEntryModel) TableName() string {
	return "cache_entries"
}
