package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type orderPlacer interface {
	PlaceOrder(ctx context.Context, sessionID string, input checkoutsvc.PlaceOrderInput) (string, error)
}

// checkoutRequest carries the contact form. Field rules live in the checkout
// service so every violation is reported at once.
type checkoutRequest struct {
	CustomerName  string              `json:"customer_name" validate:"max=200"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address" validate:"max=1000"`
	Email         string              `json:"email,omitempty" validate:"max=254"`
	Notes         string              `json:"notes,omitempty" validate:"max=2000"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
}

type checkoutResponse struct {
	OrderNumber string `json:"order_number"`
}

// Checkout converts the session cart into an order and returns its number.
func Checkout(svc orderPlacer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderNumber, err := svc.PlaceOrder(r.Context(), sessionID, checkoutsvc.PlaceOrderInput{
			CustomerName:  payload.CustomerName,
			Phone:         payload.Phone,
			Address:       payload.Address,
			Email:         payload.Email,
			Notes:         payload.Notes,
			PaymentMethod: payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{OrderNumber: orderNumber})
	}
}
