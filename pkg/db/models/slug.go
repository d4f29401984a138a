package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxSlugAttempts = 100

// uniqueSlug derives a slug from name and appends -2, -3, ... until no row in
// table already uses it.
func uniqueSlug(tx *gorm.DB, table, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = uuid.NewString()[:8]
	}
	conn := tx.Session(&gorm.Session{NewDB: true})
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		var count int64
		if err := conn.Table(table).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", name, maxSlugAttempts)
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
