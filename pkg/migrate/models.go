package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// Models lists every table the storefront persists, parents first.
func Models() []any {
	return []any{
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.SiteSetting{},
		&models.User{},
	}
}

// AutoMigrateModels builds the schema from the gorm models. The goose SQL
// files use Postgres enums, so sqlite databases are created this way instead.
func AutoMigrateModels(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	if err := conn.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
