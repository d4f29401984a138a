package catalog

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	featuredLimit = 8
	relatedLimit  = 4
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListProducts applies the browse filters, counts the matches, clamps the
// requested page and returns that page's rows.
func (r *Repository) ListProducts(ctx context.Context, params ListParams) ([]models.Product, pagination.Page, error) {
	base := r.filtered(ctx, params).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pagination.Page{}, err
	}

	page := pagination.NewPage(params.Page, total, pagination.DefaultPageSize)
	if total == 0 {
		return []models.Product{}, page, nil
	}

	var rows []models.Product
	err := base.
		Preload("Category").
		Preload("Brand").
		Order(orderClause(params.Sort)).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&rows).
		Error
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return rows, page, nil
}

func (r *Repository) filtered(ctx context.Context, params ListParams) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if params.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", params.CategorySlug)
	}
	if params.BrandSlug != "" {
		query = query.
			Joins("JOIN brands ON brands.id = products.brand_id").
			Where("brands.slug = ?", params.BrandSlug)
	}
	if params.StockStatus != nil {
		query = query.Where("products.stock_status = ?", *params.StockStatus)
	}
	if params.MinPrice != nil {
		query = query.Where("products.price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		query = query.Where("products.price <= ?", *params.MaxPrice)
	}
	if params.Query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(params.Query)) + "%"
		query = query.Where(
			`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}
	return query
}

// orderClause maps a sort key to a total ordering; id breaks ties so page
// boundaries stay stable between requests.
func orderClause(sort enums.ProductSort) string {
	switch sort {
	case enums.ProductSortPriceAsc:
		return "products.price ASC, products.id ASC"
	case enums.ProductSortPriceDesc:
		return "products.price DESC, products.id ASC"
	case enums.ProductSortName:
		return "products.name ASC, products.id ASC"
	default:
		return "products.created_at DESC, products.id ASC"
	}
}

// ListFeatured returns the newest featured products that are in stock.
func (r *Repository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Where("is_featured = ? AND stock_status = ?", true, enums.StockStatusInStock).
		Order(orderClause(enums.ProductSortNewest)).
		Limit(featuredLimit).
		Find(&rows).
		Error
	return rows, err
}

// FindProductBySlug loads a product with its category and brand.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		First(&product, "slug = ?", slug).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductByID loads the product without associations.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductsByIDs resolves a set of ids in one query. Unknown ids are absent
// from the result.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).
		Error
	return rows, err
}

// ListRelated returns other products from the same category. Uncategorized
// products are related to the other uncategorized ones.
func (r *Repository) ListRelated(ctx context.Context, product *models.Product) ([]models.Product, error) {
	if product == nil {
		return []models.Product{}, nil
	}
	q := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Where("id <> ?", product.ID)
	if product.CategoryID == nil {
		q = q.Where("category_id IS NULL")
	} else {
		q = q.Where("category_id = ?", *product.CategoryID)
	}
	var rows []models.Product
	err := q.
		Order(orderClause(enums.ProductSortNewest)).
		Limit(relatedLimit).
		Find(&rows).
		Error
	return rows, err
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Category", "Brand").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct writes the editable columns. The slug is never rewritten.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.db.WithContext(ctx).
		Model(product).
		Select("name", "description", "specifications", "price", "category_id", "brand_id", "stock_status", "image_url", "is_featured", "updated_at").
		Updates(product).
		Error
	if err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID and reports whether a row existed.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	return result.RowsAffected > 0, result.Error
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error
	return rows, err
}

// FindCategoryByID loads a category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category, deriving its slug when absent.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category; products keep existing without one.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	return result.RowsAffected > 0, result.Error
}

// ListBrands returns all brands ordered by name.
func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error
	return rows, err
}

// FindBrandByID loads a brand.
func (r *Repository) FindBrandByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// CreateBrand inserts a brand, deriving its slug when absent.
func (r *Repository) CreateBrand(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

// DeleteBrand removes a brand; products keep existing without one.
func (r *Repository) DeleteBrand(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Brand{})
	return result.RowsAffected > 0, result.Error
}
