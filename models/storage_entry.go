package models

import "time"

// StorageEntry is one key of the record store when it is backed by a SQL database
type StorageEntry struct {
	StorageKey string    `gorm:"primaryKey;size:191" json:"storage_key"`
	Value      string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the StorageEntry model
func (StorageEntry) TableName() string {
	return "storage_entries"
}
