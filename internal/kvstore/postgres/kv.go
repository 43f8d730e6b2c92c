package postgres

import (
	"context"
	"errors"
	"time"

	kvDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/kv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvDatamodel.Entry
	err := r.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *Repository) Put(ctx context.Context, key, value string) error {
	return Upsert(r.db.WithContext(ctx), key, value)
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&kvDatamodel.Entry{}).Error
}

// Upsert writes key=value on db, which may be a transaction.
func Upsert(db *gorm.DB, key, value string) error {
	entry := kvDatamodel.Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}
