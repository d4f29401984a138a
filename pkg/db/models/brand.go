package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Brand is the manufacturer a product is sold under.
type Brand struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	LogoURL   *string   `gorm:"column:logo_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	if b.Slug != "" {
		return nil
	}
	generated, err := uniqueSlug(tx, "brands", b.Name)
	if err != nil {
		return err
	}
	b.Slug = generated
	return nil
}
