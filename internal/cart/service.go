package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Line is a cart entry resolved against the live product row.
type Line struct {
	ProductID   uuid.UUID         `json:"product_id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Price       decimal.Decimal   `json:"price"`
	Quantity    int               `json:"quantity"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	StockStatus enums.StockStatus `json:"stock_status"`
	ImageURL    *string           `json:"image_url,omitempty"`
}

// View is the priced cart. Total is the sum of line subtotals and Count the
// number of units across lines.
type View struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// IsEmpty reports whether no line resolved to a live product.
func (v *View) IsEmpty() bool {
	return v == nil || len(v.Lines) == 0
}

// Service exposes the session cart operations. Every call names the session
// it operates on.
type Service interface {
	Add(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error)
	Update(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error)
	View(ctx context.Context, sessionID string) (*View, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store    Store
	products productReader
}

// NewService builds a cart service backed by the provided session store.
func NewService(store Store, products productReader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{store: store, products: products}, nil
}

func (s *service) Add(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}
	if _, err := s.products.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.Add(productID, qty)
	})
}

func (s *service) Update(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.Update(productID, qty)
	})
}

func (s *service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Remove(productID)
		return nil
	})
}

func (s *service) View(ctx context.Context, sessionID string) (*View, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.resolve(ctx, c)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) mutate(ctx context.Context, sessionID string, fn func(*Cart) error) (*View, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := fn(&c); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return s.resolve(ctx, c)
}

// resolve prices every entry with the product's current price. Entries whose
// product no longer exists are dropped from the view.
func (s *service) resolve(ctx context.Context, c Cart) (*View, error) {
	view := &View{Lines: []Line{}, Total: decimal.Zero}
	if c.IsEmpty() {
		return view, nil
	}

	products, err := s.products.FindProductsByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart products")
	}

	for i := range products {
		product := &products[i]
		qty := c.Quantity(product.ID)
		if qty <= 0 {
			continue
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		view.Lines = append(view.Lines, Line{
			ProductID:   product.ID,
			Name:        product.Name,
			Slug:        product.Slug,
			Price:       product.Price,
			Quantity:    qty,
			Subtotal:    subtotal,
			StockStatus: product.StockStatus,
			ImageURL:    product.ImageURL,
		})
		view.Total = view.Total.Add(subtotal)
		view.Count += qty
	}

	sort.Slice(view.Lines, func(i, j int) bool {
		if view.Lines[i].Name != view.Lines[j].Name {
			return view.Lines[i].Name < view.Lines[j].Name
		}
		return view.Lines[i].ProductID.String() < view.Lines[j].ProductID.String()
	})
	return view, nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	return nil
}
