package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubOrderPlacer struct {
	number  string
	err     error
	session string
	input   checkoutsvc.PlaceOrderInput
	calls   int
}

func (s *stubOrderPlacer) PlaceOrder(ctx context.Context, sessionID string, input checkoutsvc.PlaceOrderInput) (string, error) {
	s.calls++
	s.session = sessionID
	s.input = input
	return s.number, s.err
}

const checkoutBody = `{
	"customer_name": "Jane Wanjiku",
	"phone": "+254 700 000 000",
	"address": "Moi Avenue, Nairobi",
	"email": "jane@example.com",
	"payment_method": "mpesa"
}`

func TestCheckoutReturnsOrderNumber(t *testing.T) {
	svc := &stubOrderPlacer{number: "ORD-1A2B3C4D"}
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.session != "session-1" {
		t.Fatalf("expected session-1 got %s", svc.session)
	}
	if svc.input.PaymentMethod != enums.PaymentMethodMpesa || svc.input.CustomerName != "Jane Wanjiku" {
		t.Fatalf("unexpected input forwarded: %+v", svc.input)
	}

	var envelope struct {
		Data checkoutResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != "ORD-1A2B3C4D" {
		t.Fatalf("unexpected order number %q", envelope.Data.OrderNumber)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := &stubOrderPlacer{err: pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")}
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != pkgerrors.MetadataFor(pkgerrors.CodeEmptyCart).HTTPStatus {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), string(pkgerrors.CodeEmptyCart)) {
		t.Fatalf("expected empty cart code in body: %s", rec.Body.String())
	}
}

func TestCheckoutRejectsUnknownFields(t *testing.T) {
	svc := &stubOrderPlacer{number: "ORD-1A2B3C4D"}
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"customer_name":"Jane","total":"1"}`))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("expected checkout not to run")
	}
}
