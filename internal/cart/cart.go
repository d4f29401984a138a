package cart

import (
	"fmt"
	"sort"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

// MaxLineQuantity bounds a single cart line. It keeps order item quantities
// and subtotals inside their column types.
const MaxLineQuantity = 999

// Entry is one product id to quantity pair held in a session cart.
type Entry struct {
	ProductID uuid.UUID
	Quantity  int
}

// Cart is the session-scoped mapping of product id to positive quantity.
// The zero value is an empty cart ready for use.
type Cart struct {
	items map[uuid.UUID]int
}

// New returns an empty cart.
func New() Cart {
	return Cart{items: map[uuid.UUID]int{}}
}

// FromEntries builds a cart, skipping non-positive quantities and capping
// each line at MaxLineQuantity.
func FromEntries(entries []Entry) Cart {
	c := New()
	for _, entry := range entries {
		if entry.Quantity <= 0 {
			continue
		}
		qty := min(entry.Quantity, MaxLineQuantity)
		c.items[entry.ProductID] = min(c.items[entry.ProductID], MaxLineQuantity-qty) + qty
	}
	return c
}

// Add accumulates qty onto the product's line. Non-positive quantities and
// totals above MaxLineQuantity are rejected and leave the cart untouched.
func (c *Cart) Add(productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}
	existing := c.items[productID]
	if qty > MaxLineQuantity-existing {
		return tooMany(existing)
	}
	c.ensure()
	c.items[productID] = existing + qty
	return nil
}

// Update replaces the line quantity; qty <= 0 removes the line.
func (c *Cart) Update(productID uuid.UUID, qty int) error {
	if qty <= 0 {
		c.Remove(productID)
		return nil
	}
	if qty > MaxLineQuantity {
		return tooMany(c.items[productID])
	}
	c.ensure()
	c.items[productID] = qty
	return nil
}

func tooMany(held int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity per product is limited to %d", MaxLineQuantity)).
		WithDetails(map[string]any{"max_quantity": MaxLineQuantity, "in_cart": held})
}

// Remove deletes the line if present.
func (c *Cart) Remove(productID uuid.UUID) {
	delete(c.items, productID)
}

// Quantity returns the quantity held for the product, zero when absent.
func (c Cart) Quantity(productID uuid.UUID) int {
	return c.items[productID]
}

// Lines returns the entries ordered by product id.
func (c Cart) Lines() []Entry {
	out := make([]Entry, 0, len(c.items))
	for id, qty := range c.items {
		out = append(out, Entry{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}

// ProductIDs returns the ids held in the cart.
func (c Cart) ProductIDs() []uuid.UUID {
	lines := c.Lines()
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Len returns the number of distinct lines.
func (c Cart) Len() int {
	return len(c.items)
}

func (c *Cart) ensure() {
	if c.items == nil {
		c.items = map[uuid.UUID]int{}
	}
}
