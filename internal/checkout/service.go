package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	checkoutpkg "github.com/angelmondragon/storefront-backend/pkg/checkout"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"gorm.io/gorm"
)

const (
	defaultOrderNumberAttempts = 3
	defaultNotifyTimeout       = 15 * time.Second
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartReader interface {
	View(ctx context.Context, sessionID string) (*cart.View, error)
	Clear(ctx context.Context, sessionID string) error
}

type orderNotifier interface {
	NotifyBestEffort(ctx context.Context, order *models.Order)
}

// PlaceOrderInput is the customer data submitted with the checkout form.
type PlaceOrderInput struct {
	CustomerName  string
	Phone         string
	Address       string
	Email         string
	Notes         string
	PaymentMethod enums.PaymentMethod
}

// Service turns a session cart into a persisted order.
type Service interface {
	PlaceOrder(ctx context.Context, sessionID string, input PlaceOrderInput) (string, error)
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	Tx                  txRunner
	Cart                cartReader
	Orders              orders.Repository
	Notifier            orderNotifier
	Logger              *logger.Logger
	Metrics             *metrics.CheckoutMetrics
	OrderNumberAttempts int
	NotifyTimeout       time.Duration
	NewOrderNumber      func() string
}

type service struct {
	tx        txRunner
	cart      cartReader
	orders    orders.Repository
	notifier  orderNotifier
	logg      *logger.Logger
	metrics   *metrics.CheckoutMetrics
	attempts  int
	notifyTTL time.Duration
	newNumber func() string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	attempts := params.OrderNumberAttempts
	if attempts <= 0 {
		attempts = defaultOrderNumberAttempts
	}
	notifyTTL := params.NotifyTimeout
	if notifyTTL <= 0 {
		notifyTTL = defaultNotifyTimeout
	}
	newNumber := params.NewOrderNumber
	if newNumber == nil {
		newNumber = checkoutpkg.NewOrderNumber
	}
	return &service{
		tx:        params.Tx,
		cart:      params.Cart,
		orders:    params.Orders,
		notifier:  params.Notifier,
		logg:      params.Logger,
		metrics:   params.Metrics,
		attempts:  attempts,
		notifyTTL: notifyTTL,
		newNumber: newNumber,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, sessionID string, input PlaceOrderInput) (string, error) {
	view, err := s.cart.View(ctx, sessionID)
	if err != nil {
		s.metrics.IncFailure("cart")
		return "", err
	}
	if view.IsEmpty() {
		s.metrics.IncFailure("empty_cart")
		return "", pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	contact := checkoutpkg.ContactInput{
		CustomerName:  input.CustomerName,
		Phone:         input.Phone,
		Address:       input.Address,
		Email:         input.Email,
		PaymentMethod: input.PaymentMethod,
	}.Normalize()
	if err := checkoutpkg.ValidateContact(contact); err != nil {
		s.metrics.IncFailure("validation")
		return "", err
	}

	var order *models.Order
	for attempt := 1; ; attempt++ {
		order = buildOrder(s.newNumber(), contact, strings.TrimSpace(input.Notes), view)
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			_, err := s.orders.WithTx(tx).Create(ctx, order)
			return err
		})
		if err == nil {
			break
		}
		if isOrderNumberCollision(err) && attempt < s.attempts {
			s.warn(ctx, "checkout.order_number_collision")
			continue
		}
		s.metrics.IncFailure("persistence")
		return "", pkgerrors.Wrap(pkgerrors.CodePersistence, err, "persist order")
	}

	if s.logg != nil {
		ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	}
	if err := s.cart.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Error(ctx, "checkout.cart_clear_failed", err)
	}
	s.notify(ctx, order)
	s.metrics.IncPlaced(order.PaymentMethod.String())
	if s.logg != nil {
		s.logg.Info(ctx, "checkout.order_placed")
	}
	return order.OrderNumber, nil
}

// notify runs the confirmation detached from the request's cancellation but
// bounded, so a stalled relay cannot hold the response of a committed order.
// Unsent confirmations are picked up by the cron retry job.
func (s *service) notify(ctx context.Context, order *models.Order) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTTL)
	defer cancel()
	s.notifier.NotifyBestEffort(notifyCtx, order)
}

func (s *service) warn(ctx context.Context, msg string) {
	if s.logg != nil {
		s.logg.Warn(ctx, msg)
	}
}

func buildOrder(number string, contact checkoutpkg.ContactInput, notes string, view *cart.View) *models.Order {
	order := &models.Order{
		OrderNumber:     number,
		CustomerName:    contact.CustomerName,
		CustomerPhone:   contact.Phone,
		CustomerAddress: contact.Address,
		PaymentMethod:   contact.PaymentMethod,
		TotalAmount:     view.Total,
		Status:          enums.OrderStatusPending,
		Notes:           notes,
		Items:           make([]models.OrderItem, 0, len(view.Lines)),
	}
	if contact.Email != "" {
		email := contact.Email
		order.CustomerEmail = &email
	}
	for _, line := range view.Lines {
		productID := line.ProductID
		order.Items = append(order.Items, models.OrderItem{
			ProductID:    &productID,
			ProductName:  line.Name,
			ProductPrice: line.Price,
			Quantity:     line.Quantity,
			Subtotal:     line.Subtotal,
		})
	}
	return order
}

func isOrderNumberCollision(err error) bool {
	return db.IsUniqueViolation(err, "order_number")
}
