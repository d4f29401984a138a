package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	cartsvc "github.com/angelmondragon/storefront-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type cartService interface {
	Add(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*cartsvc.View, error)
	Update(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*cartsvc.View, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*cartsvc.View, error)
	View(ctx context.Context, sessionID string) (*cartsvc.View, error)
}

// cartAction is one cart operation; every endpoint answers with the priced
// cart as it stands afterwards.
type cartAction func(r *http.Request, sessionID string) (*cartsvc.View, error)

func serveCart(logg *logger.Logger, action cartAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}
		view, err := action(r, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartFetch(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return serveCart(logg, func(r *http.Request, sessionID string) (*cartsvc.View, error) {
		return svc.View(r.Context(), sessionID)
	})
}

// CartAddItem adds units of a product. A missing quantity means one unit.
func CartAddItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return serveCart(logg, func(r *http.Request, sessionID string) (*cartsvc.View, error) {
		var body AddItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return nil, err
		}
		return svc.Add(r.Context(), sessionID, body.ProductID, body.quantity())
	})
}

// CartUpdateItem sets a line quantity; zero or negative removes the line.
func CartUpdateItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return serveCart(logg, func(r *http.Request, sessionID string) (*cartsvc.View, error) {
		productID, err := productIDParam(r)
		if err != nil {
			return nil, err
		}
		var body UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return nil, err
		}
		return svc.Update(r.Context(), sessionID, productID, *body.Quantity)
	})
}

func CartRemoveItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return serveCart(logg, func(r *http.Request, sessionID string) (*cartsvc.View, error) {
		productID, err := productIDParam(r)
		if err != nil {
			return nil, err
		}
		return svc.Remove(r.Context(), sessionID, productID)
	})
}

func productIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "productId")))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}
