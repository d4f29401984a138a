package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Product represents a catalog listing.
type Product struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name           string            `gorm:"column:name;not null"`
	Slug           string            `gorm:"column:slug;not null;uniqueIndex"`
	Description    string            `gorm:"column:description;not null;default:''"`
	Specifications string            `gorm:"column:specifications;not null;default:''"`
	Price          decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null"`
	CategoryID     *uuid.UUID        `gorm:"column:category_id;type:uuid"`
	Category       *Category         `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	BrandID        *uuid.UUID        `gorm:"column:brand_id;type:uuid"`
	Brand          *Brand            `gorm:"foreignKey:BrandID;constraint:OnDelete:SET NULL"`
	StockStatus    enums.StockStatus `gorm:"column:stock_status;type:stock_status;not null;default:'in_stock'"`
	ImageURL       *string           `gorm:"column:image_url"`
	IsFeatured     bool              `gorm:"column:is_featured;not null;default:false"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.StockStatus == "" {
		p.StockStatus = enums.StockStatusInStock
	}
	if p.Slug != "" {
		return nil
	}
	generated, err := uniqueSlug(tx, "products", p.Name)
	if err != nil {
		return err
	}
	p.Slug = generated
	return nil
}
