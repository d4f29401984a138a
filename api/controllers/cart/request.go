package cart

import "github.com/google/uuid"

// AddItemRequest adds quantity units of a product to the session cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity,omitempty" validate:"omitempty,min=1,max=999"`
}

// UpdateItemRequest sets the quantity of a cart line. Zero or less removes it.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=999"`
}

func (r AddItemRequest) quantity() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}
