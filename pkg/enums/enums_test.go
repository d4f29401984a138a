package enums

import "testing"

func TestParsePaymentMethod(t *testing.T) {
	got, err := ParsePaymentMethod("cash_on_delivery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != PaymentMethodCOD {
		t.Fatalf("expected cod, got %q", got)
	}
	if _, err := ParsePaymentMethod("bitcoin"); err == nil {
		t.Fatal("expected unknown method to fail")
	}
}

func TestProductSortDefaultIsValid(t *testing.T) {
	if !DefaultProductSort.IsValid() {
		t.Fatalf("default sort %q must be valid", DefaultProductSort)
	}
	if ProductSort("random").IsValid() {
		t.Fatal("expected unknown sort to be invalid")
	}
}

func TestStockStatusValues(t *testing.T) {
	for _, status := range []StockStatus{StockStatusInStock, StockStatusOutOfStock, StockStatusPreOrder} {
		if !status.IsValid() {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if _, err := ParseUserRole("owner"); err == nil {
		t.Fatal("expected unknown role to fail")
	}
}
