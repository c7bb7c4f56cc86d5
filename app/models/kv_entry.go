package models

import "time"

// KVEntry is one row of the key-value table backing the SQL storage driver.
type KVEntry struct {
	Key       string `gorm:"size:191;primaryKey"`
	Value     string `gorm:"type:longtext;not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
