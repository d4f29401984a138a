package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type catalogAdmin interface {
	CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDetail, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input catalog.UpdateProductInput) (*catalog.ProductDetail, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	CreateCategory(ctx context.Context, input catalog.CreateCategoryInput) (*catalog.CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
	CreateBrand(ctx context.Context, input catalog.CreateBrandInput) (*catalog.BrandDTO, error)
	DeleteBrand(ctx context.Context, brandID uuid.UUID) error
}

func CreateProduct(svc catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "product_slug", product.Slug), "admin.product_created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		productID, err := idParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), productID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, "productId", func(ctx context.Context, id uuid.UUID) error {
		if svc == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
		}
		return svc.DeleteProduct(ctx, id)
	})
}

func CreateCategory(svc catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var body createCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.CreateCategory(r.Context(), catalog.CreateCategoryInput{
			Name:        body.Name,
			Slug:        body.Slug,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// DeleteCategory removes a category. Its products stay and lose the reference.
func DeleteCategory(svc catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, "categoryId", func(ctx context.Context, id uuid.UUID) error {
		if svc == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
		}
		return svc.DeleteCategory(ctx, id)
	})
}

func CreateBrand(svc catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var body createBrandRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brand, err := svc.CreateBrand(r.Context(), catalog.CreateBrandInput{
			Name:    body.Name,
			Slug:    body.Slug,
			LogoURL: body.LogoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, brand)
	}
}

func DeleteBrand(svc catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, "brandId", func(ctx context.Context, id uuid.UUID) error {
		if svc == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
		}
		return svc.DeleteBrand(ctx, id)
	})
}

func deleteByID(logg *logger.Logger, param string, del func(ctx context.Context, id uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := del(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func idParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, name)))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
