package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog browsing plus the admin catalog mutations.
type Service interface {
	ListProducts(ctx context.Context, params ListParams) (*ProductListResult, error)
	Featured(ctx context.Context) ([]ProductSummary, error)
	ProductDetail(ctx context.Context, slug string) (*ProductDetail, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListBrands(ctx context.Context) ([]BrandDTO, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDetail, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
	CreateBrand(ctx context.Context, input CreateBrandInput) (*BrandDTO, error)
	DeleteBrand(ctx context.Context, brandID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name           string
	Slug           string
	Description    string
	Specifications string
	Price          decimal.Decimal
	CategoryID     *uuid.UUID
	BrandID        *uuid.UUID
	StockStatus    enums.StockStatus
	ImageURL       *string
	IsFeatured     bool
}

// UpdateProductInput holds optional mutation values for a product. The slug
// is not editable.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Specifications *string
	Price          *decimal.Decimal
	CategoryID     *uuid.UUID
	ClearCategory  bool
	BrandID        *uuid.UUID
	ClearBrand     bool
	StockStatus    *enums.StockStatus
	ImageURL       *string
	IsFeatured     *bool
}

// CreateCategoryInput holds the payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Slug        string
	Description string
}

// CreateBrandInput holds the payload to create a brand.
type CreateBrandInput struct {
	Name    string
	Slug    string
	LogoURL *string
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, params ListParams) (*ProductListResult, error) {
	rows, page, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	params.Page = page.Number
	return &ProductListResult{
		Products: summariesFromModels(rows),
		Page:     page,
		Filters:  params,
	}, nil
}

func (s *service) Featured(ctx context.Context) ([]ProductSummary, error) {
	rows, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list featured products")
	}
	return summariesFromModels(rows), nil
}

func (s *service) ProductDetail(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.repo.FindProductBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, notFoundOr(err, "product not found", "load product")
	}
	related, err := s.repo.ListRelated(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list related products")
	}
	return detailFromModel(product, related), nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *CategoryFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListBrands(ctx context.Context) ([]BrandDTO, error) {
	rows, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list brands")
	}
	out := make([]BrandDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *BrandFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDetail, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	status := input.StockStatus
	if status == "" {
		status = enums.StockStatusInStock
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stock status %q", status))
	}
	if err := s.ensureReferences(ctx, input.CategoryID, input.BrandID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:           name,
		Slug:           strings.TrimSpace(input.Slug),
		Description:    input.Description,
		Specifications: input.Specifications,
		Price:          input.Price.Round(2),
		CategoryID:     input.CategoryID,
		BrandID:        input.BrandID,
		StockStatus:    status,
		ImageURL:       input.ImageURL,
		IsFeatured:     input.IsFeatured,
	}
	if _, err := s.repo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return s.ProductDetail(ctx, product.Slug)
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDetail, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "load product")
	}
	if err := s.ensureReferences(ctx, input.CategoryID, input.BrandID); err != nil {
		return nil, err
	}
	if err := applyUpdateToProduct(product, input); err != nil {
		return nil, err
	}
	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return s.ProductDetail(ctx, product.Slug)
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	found, err := s.repo.DeleteProduct(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	category := &models.Category{
		Name:        name,
		Slug:        strings.TrimSpace(input.Slug),
		Description: input.Description,
	}
	if _, err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return CategoryFromModel(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	found, err := s.repo.DeleteCategory(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return nil
}

func (s *service) CreateBrand(ctx context.Context, input CreateBrandInput) (*BrandDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	brand := &models.Brand{
		Name:    name,
		Slug:    strings.TrimSpace(input.Slug),
		LogoURL: input.LogoURL,
	}
	if _, err := s.repo.CreateBrand(ctx, brand); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create brand")
	}
	return BrandFromModel(brand), nil
}

func (s *service) DeleteBrand(ctx context.Context, brandID uuid.UUID) error {
	found, err := s.repo.DeleteBrand(ctx, brandID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete brand")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
	}
	return nil
}

func (s *service) ensureReferences(ctx context.Context, categoryID, brandID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
	}
	if brandID != nil {
		if _, err := s.repo.FindBrandByID(ctx, *brandID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "brand does not exist")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load brand")
		}
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Specifications != nil {
		product.Specifications = *input.Specifications
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = input.Price.Round(2)
	}
	if input.ClearCategory {
		product.CategoryID = nil
	} else if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.ClearBrand {
		product.BrandID = nil
	} else if input.BrandID != nil {
		product.BrandID = input.BrandID
	}
	if input.StockStatus != nil {
		if !input.StockStatus.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stock status %q", *input.StockStatus))
		}
		product.StockStatus = *input.StockStatus
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	return nil
}

func notFoundOr(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, internalMsg)
}
