package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kitchen/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMStorageRepository is the durable StorageRepository, one row per key.
type GORMStorageRepository struct {
	db *gorm.DB
}

// NewGORMStorageRepository creates a new instance of GORMStorageRepository.
func NewGORMStorageRepository(db *gorm.DB) *GORMStorageRepository {
	return &GORMStorageRepository{
		db: db,
	}
}

// Get reads a key.
func (r *GORMStorageRepository) Get(ctx context.Context, namespace, key string) (string, error) {
	var entry models.StorageEntry
	err := r.db.WithContext(ctx).First(&entry, "namespace = ? AND entry_key = ?", namespace, key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s/%s: %w", namespace, key, err)
	}
	return entry.Value, nil
}

// Set writes a key, replacing any previous value.
func (r *GORMStorageRepository) Set(ctx context.Context, namespace, key, value string) error {
	entry := models.StorageEntry{Namespace: namespace, Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (r *GORMStorageRepository) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND entry_key IN ?", namespace, keys).
		Delete(&models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete keys in %s: %w", namespace, err)
	}
	return nil
}

// Clear removes every key in the namespace.
func (r *GORMStorageRepository) Clear(ctx context.Context, namespace string) error {
	if err := r.db.WithContext(ctx).Where("namespace = ?", namespace).Delete(&models.StorageEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear %s: %w", namespace, err)
	}
	return nil
}
