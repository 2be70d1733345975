package models

import "time"

// StorageEntry is one persisted key in a client's durable scope.
type StorageEntry struct {
	Namespace string    `gorm:"primaryKey;type:varchar(128)"`
	Key       string    `gorm:"primaryKey;column:entry_key;type:varchar(64)"`
	Value     string    `gorm:"type:text"`
	UpdatedAt time.Time
}
