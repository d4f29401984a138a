package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// Repository persists site settings.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// All returns every setting ordered by key.
func (r *Repository) All(ctx context.Context) ([]models.SiteSetting, error) {
	var rows []models.SiteSetting
	err := r.DB(ctx).Order("key ASC").Find(&rows).Error
	return rows, err
}

// Get loads a single setting by key.
func (r *Repository) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	var row models.SiteSetting
	if err := r.DB(ctx).First(&row, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert inserts the setting or overwrites the value stored under key.
func (r *Repository) Upsert(ctx context.Context, key, value string) (*models.SiteSetting, error) {
	row := &models.SiteSetting{Key: key, Value: value}
	if err := r.Base.Upsert(ctx, row, []string{"key"}, []string{"value", "updated_at"}); err != nil {
		return nil, err
	}
	return r.Get(ctx, key)
}
