package orders

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/api/responses"
	internalorders "github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/checkout"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type orderReader interface {
	GetByOrderNumber(ctx context.Context, orderNumber string) (*internalorders.OrderDTO, error)
}

// Detail serves the order confirmation page. Knowing the order number is
// enough to read the order, so responses are never cached and malformed
// numbers get the same 404 as unknown ones.
func Detail(svc orderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		number, ok := checkout.ParseOrderNumber(chi.URLParam(r, "orderNumber"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderNumber(ctx, number)
		}

		order, err := svc.GetByOrderNumber(ctx, number)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
