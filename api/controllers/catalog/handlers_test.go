package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogsvc "github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

type stubBrowser struct {
	params     catalogsvc.ListParams
	detailSlug string
	detailErr  error
}

func (s *stubBrowser) ListProducts(ctx context.Context, params catalogsvc.ListParams) (*catalogsvc.ProductListResult, error) {
	s.params = params
	return &catalogsvc.ProductListResult{
		Products: []catalogsvc.ProductSummary{{ID: uuid.New(), Name: "Router", Price: decimal.NewFromInt(100)}},
		Page:     pagination.Page{Number: params.Page, TotalPages: 1},
		Filters:  params,
	}, nil
}

func (s *stubBrowser) Featured(ctx context.Context) ([]catalogsvc.ProductSummary, error) {
	return []catalogsvc.ProductSummary{}, nil
}

func (s *stubBrowser) ProductDetail(ctx context.Context, slug string) (*catalogsvc.ProductDetail, error) {
	s.detailSlug = slug
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return &catalogsvc.ProductDetail{ProductSummary: catalogsvc.ProductSummary{Slug: slug}}, nil
}

func (s *stubBrowser) ListCategories(ctx context.Context) ([]catalogsvc.CategoryDTO, error) {
	return []catalogsvc.CategoryDTO{{ID: uuid.New(), Name: "Networking", Slug: "networking"}}, nil
}

func (s *stubBrowser) ListBrands(ctx context.Context) ([]catalogsvc.BrandDTO, error) {
	return []catalogsvc.BrandDTO{}, nil
}

func withSlug(req *http.Request, slug string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("slug", slug)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestListProductsFailsOpen(t *testing.T) {
	svc := &stubBrowser{}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=networking&sort=bogus&page=abc&min_price=ten&max_price=500&stock=in_stock", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "networking", svc.params.CategorySlug)
	assert.Equal(t, enums.DefaultProductSort, svc.params.Sort)
	assert.Equal(t, 1, svc.params.Page)
	assert.Nil(t, svc.params.MinPrice)
	require.NotNil(t, svc.params.MaxPrice)
	assert.True(t, svc.params.MaxPrice.Equal(decimal.NewFromInt(500)))
	require.NotNil(t, svc.params.StockStatus)
	assert.Equal(t, enums.StockStatusInStock, *svc.params.StockStatus)

	var envelope struct {
		Data catalogsvc.ProductListResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Len(t, envelope.Data.Products, 1)
}

func TestProductDetailNotFound(t *testing.T) {
	svc := &stubBrowser{detailErr: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := ProductDetail(svc, nil)

	req := withSlug(httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil), "missing")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing", svc.detailSlug)
}

func TestProductDetailSuccess(t *testing.T) {
	svc := &stubBrowser{}
	handler := ProductDetail(svc, nil)

	req := withSlug(httptest.NewRequest(http.MethodGet, "/api/v1/products/tp-link-archer", nil), "tp-link-archer")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data catalogsvc.ProductDetail `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, "tp-link-archer", envelope.Data.Slug)
}

func TestCategories(t *testing.T) {
	handler := Categories(&stubBrowser{}, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"networking"`)
}
