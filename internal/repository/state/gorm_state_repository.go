// File: internal/repository/state/gorm_state_repository.go

package state

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidKey = errors.New("state key cannot be empty")

// StateBlob is the single-table key-value schema backing the store.
type StateBlob struct {
	Key       string `gorm:"primarykey;size:64"`
	Value     []byte
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}

type gormStateRepository struct {
	db *gorm.DB
}

func NewStateStore(db *gorm.DB) StateStore {
	return &gormStateRepository{db: db}
}

// AutoMigrate creates the blob table. Call once at startup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&StateBlob{})
}

func (r *gormStateRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrInvalidKey
	}

	var blob StateBlob
	err := r.db.WithContext(ctx).First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		log.Printf("[StateStore] Database error loading key %q: %v", key, err)
		return nil, false, errors.New("database error loading state")
	}
	return blob.Value, true, nil
}

func (r *gormStateRepository) Save(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	blob := StateBlob{Key: key, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&blob).Error
	if err != nil {
		log.Printf("[StateStore] Database error saving key %q: %v", key, err)
		return errors.New("database error saving state")
	}
	return nil
}

func (r *gormStateRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	err := r.db.WithContext(ctx).Delete(&StateBlob{}, "key = ?", key).Error
	if err != nil {
		log.Printf("[StateStore] Database error deleting key %q: %v", key, err)
		return errors.New("database error deleting state")
	}
	return nil
}
