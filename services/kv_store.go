package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smart-home-repair/repair-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValueStore is the storage primitive under the record store.
// Each call is atomic for its own key; nothing spans keys.
type KeyValueStore interface {
	// GetItem returns the value for key and whether it exists
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem stores value under key, replacing any previous value
	SetItem(ctx context.Context, key, value string) error

	// MultiRemove deletes every given key; missing keys are ignored
	MultiRemove(ctx context.Context, keys ...string) error

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error
}

// GormKeyValueStore keeps keys in the storage_entries table
type GormKeyValueStore struct {
	db *gorm.DB
}

// NewGormKeyValueStore migrates the storage table and returns a store over db
func NewGormKeyValueStore(db *gorm.DB) (*GormKeyValueStore, error) {
	if err := db.AutoMigrate(&models.StorageEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate storage table: %w", err)
	}
	return &GormKeyValueStore{db: db}, nil
}

// GetItem reads one key
func (s *GormKeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var entry models.StorageEntry
	err := s.db.WithContext(ctx).Where("storage_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// SetItem upserts one key
func (s *GormKeyValueStore) SetItem(ctx context.Context, key, value string) error {
	entry := models.StorageEntry{
		StorageKey: key,
		Value:      value,
		UpdatedAt:  time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// MultiRemove deletes the given keys
func (s *GormKeyValueStore) MultiRemove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("storage_key IN ?", keys).Delete(&models.StorageEntry{}).Error
}

// Ping checks the database connection
func (s *GormKeyValueStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
