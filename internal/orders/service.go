package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

type contactLookup interface {
	WhatsAppNumber(ctx context.Context) (string, error)
}

// Service exposes the read side of orders.
type Service interface {
	GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderDTO, error)
}

type service struct {
	repo     Repository
	settings contactLookup
}

// NewService wires the orders service.
func NewService(repo Repository, settings contactLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings service required")
	}
	return &service{repo: repo, settings: settings}, nil
}

func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderDTO, error) {
	orderNumber = strings.ToUpper(strings.TrimSpace(orderNumber))
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	dto := FromModel(order)
	number, err := s.settings.WhatsAppNumber(ctx)
	if err != nil {
		return nil, err
	}
	dto.WhatsAppNumber = number
	return dto, nil
}
