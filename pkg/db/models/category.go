package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products on the storefront.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the id and a unique slug when absent. Slugs are never
// regenerated on update.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	if c.Slug != "" {
		return nil
	}
	generated, err := uniqueSlug(tx, "categories", c.Name)
	if err != nil {
		return err
	}
	c.Slug = generated
	return nil
}
