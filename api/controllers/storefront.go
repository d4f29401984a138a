package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type settingsReader interface {
	All(ctx context.Context) (map[string]string, error)
	WhatsAppNumber(ctx context.Context) (string, error)
}

type taxonomyReader interface {
	ListCategories(ctx context.Context) ([]catalog.CategoryDTO, error)
	ListBrands(ctx context.Context) ([]catalog.BrandDTO, error)
}

type cartViewer interface {
	View(ctx context.Context, sessionID string) (*cart.View, error)
}

// StorefrontContext is the data every storefront page renders around its content.
type StorefrontContext struct {
	Settings       map[string]string     `json:"settings"`
	WhatsAppNumber string                `json:"whatsapp_number"`
	Categories     []catalog.CategoryDTO `json:"categories"`
	Brands         []catalog.BrandDTO    `json:"brands"`
	CartCount      int                   `json:"cart_count"`
}

// Storefront returns site settings, navigation taxonomy and the caller's cart size.
// A cart lookup failure degrades to a zero count.
func Storefront(settings settingsReader, taxonomy taxonomyReader, carts cartViewer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if settings == nil || taxonomy == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}
		ctx := r.Context()

		all, err := settings.All(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		whatsapp, err := settings.WhatsAppNumber(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		categories, err := taxonomy.ListCategories(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		brands, err := taxonomy.ListBrands(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payload := StorefrontContext{
			Settings:       all,
			WhatsAppNumber: whatsapp,
			Categories:     categories,
			Brands:         brands,
		}
		if carts != nil {
			if sessionID := middleware.SessionIDFromContext(ctx); sessionID != "" {
				view, err := carts.View(ctx, sessionID)
				if err != nil {
					if logg != nil {
						logg.Warn(ctx, "storefront.cart_count_unavailable")
					}
				} else {
					payload.CartCount = view.Count
				}
			}
		}

		responses.WriteSuccess(w, payload)
	}
}
