package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SiteSetting is a key/value pair editable by administrators.
type SiteSetting struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Key       string    `gorm:"column:key;not null;uniqueIndex"`
	Value     string    `gorm:"column:value;not null;default:''"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *SiteSetting) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
