package admin

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

type createProductRequest struct {
	Name           string            `json:"name" validate:"required,max=200"`
	Slug           string            `json:"slug,omitempty" validate:"omitempty,max=220"`
	Description    string            `json:"description"`
	Specifications string            `json:"specifications"`
	Price          decimal.Decimal   `json:"price" validate:"money"`
	CategoryID     *uuid.UUID        `json:"category_id,omitempty"`
	BrandID        *uuid.UUID        `json:"brand_id,omitempty"`
	StockStatus    enums.StockStatus `json:"stock_status,omitempty"`
	ImageURL       *string           `json:"image_url,omitempty" validate:"omitempty,url"`
	IsFeatured     bool              `json:"is_featured"`
}

func (r createProductRequest) toInput() catalog.CreateProductInput {
	return catalog.CreateProductInput{
		Name:           r.Name,
		Slug:           r.Slug,
		Description:    r.Description,
		Specifications: r.Specifications,
		Price:          r.Price,
		CategoryID:     r.CategoryID,
		BrandID:        r.BrandID,
		StockStatus:    r.StockStatus,
		ImageURL:       r.ImageURL,
		IsFeatured:     r.IsFeatured,
	}
}

// updateProductRequest is a partial update. Absent fields are untouched;
// clear_category and clear_brand detach the product from its taxonomy.
type updateProductRequest struct {
	Name           *string            `json:"name,omitempty" validate:"omitempty,max=200"`
	Description    *string            `json:"description,omitempty"`
	Specifications *string            `json:"specifications,omitempty"`
	Price          *decimal.Decimal   `json:"price,omitempty" validate:"omitempty,money"`
	CategoryID     *uuid.UUID         `json:"category_id,omitempty"`
	ClearCategory  bool               `json:"clear_category,omitempty"`
	BrandID        *uuid.UUID         `json:"brand_id,omitempty"`
	ClearBrand     bool               `json:"clear_brand,omitempty"`
	StockStatus    *enums.StockStatus `json:"stock_status,omitempty"`
	ImageURL       *string            `json:"image_url,omitempty"`
	IsFeatured     *bool              `json:"is_featured,omitempty"`
}

func (r updateProductRequest) toInput() catalog.UpdateProductInput {
	return catalog.UpdateProductInput{
		Name:           r.Name,
		Description:    r.Description,
		Specifications: r.Specifications,
		Price:          r.Price,
		CategoryID:     r.CategoryID,
		ClearCategory:  r.ClearCategory,
		BrandID:        r.BrandID,
		ClearBrand:     r.ClearBrand,
		StockStatus:    r.StockStatus,
		ImageURL:       r.ImageURL,
		IsFeatured:     r.IsFeatured,
	}
}

type createCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=120"`
	Description string `json:"description"`
}

type createBrandRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Slug    string  `json:"slug,omitempty" validate:"omitempty,max=120"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

type settingRequest struct {
	Value string `json:"value" validate:"max=500"`
}
