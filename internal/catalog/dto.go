package catalog

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryDTO is the public shape of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
}

// BrandDTO is the public shape of a brand.
type BrandDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
	LogoURL *string   `json:"logo_url,omitempty"`
}

// ProductSummary is a product as it appears in listings.
type ProductSummary struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Price       decimal.Decimal   `json:"price"`
	StockStatus enums.StockStatus `json:"stock_status"`
	ImageURL    *string           `json:"image_url,omitempty"`
	IsFeatured  bool              `json:"is_featured"`
	Category    *CategoryDTO      `json:"category,omitempty"`
	Brand       *BrandDTO         `json:"brand,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ProductDetail adds the long-form fields and related products.
type ProductDetail struct {
	ProductSummary
	Description    string           `json:"description"`
	Specifications string           `json:"specifications"`
	Related        []ProductSummary `json:"related_products"`
}

// ProductListResult is one page of the catalog listing.
type ProductListResult struct {
	Products []ProductSummary `json:"products"`
	Page     pagination.Page  `json:"pagination"`
	Filters  ListParams       `json:"filters"`
}

// CategoryFromModel maps the persistence model to its DTO.
func CategoryFromModel(m *models.Category) *CategoryDTO {
	if m == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
	}
}

// BrandFromModel maps the persistence model to its DTO.
func BrandFromModel(m *models.Brand) *BrandDTO {
	if m == nil {
		return nil
	}
	return &BrandDTO{
		ID:      m.ID,
		Name:    m.Name,
		Slug:    m.Slug,
		LogoURL: m.LogoURL,
	}
}

// SummaryFromModel maps a product row to its listing shape.
func SummaryFromModel(m *models.Product) ProductSummary {
	return ProductSummary{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Price:       m.Price,
		StockStatus: m.StockStatus,
		ImageURL:    m.ImageURL,
		IsFeatured:  m.IsFeatured,
		Category:    CategoryFromModel(m.Category),
		Brand:       BrandFromModel(m.Brand),
		CreatedAt:   m.CreatedAt,
	}
}

func summariesFromModels(rows []models.Product) []ProductSummary {
	out := make([]ProductSummary, 0, len(rows))
	for i := range rows {
		out = append(out, SummaryFromModel(&rows[i]))
	}
	return out
}

func detailFromModel(m *models.Product, related []models.Product) *ProductDetail {
	return &ProductDetail{
		ProductSummary: SummaryFromModel(m),
		Description:    m.Description,
		Specifications: m.Specifications,
		Related:        summariesFromModels(related),
	}
}
