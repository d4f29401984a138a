package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/google/uuid"
)

const subjectPrefix = "Order Confirmation - "

type orderTracker interface {
	MarkNotified(ctx context.Context, orderID uuid.UUID, at time.Time) error
	IncrementNotificationAttempts(ctx context.Context, orderID uuid.UUID) error
}

// NotifierParams wires the order notifier.
type NotifierParams struct {
	Mailer       Mailer
	Orders       orderTracker
	From         string
	AdminAddress string
	Logger       *logger.Logger
	Metrics      *metrics.CheckoutMetrics
	Now          func() time.Time
}

// Notifier sends order confirmations and records the outcome on the order.
type Notifier struct {
	mailer  Mailer
	orders  orderTracker
	from    string
	admin   string
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
	now     func() time.Time
}

func NewNotifier(params NotifierParams) (*Notifier, error) {
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if strings.TrimSpace(params.AdminAddress) == "" {
		return nil, fmt.Errorf("admin address required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Notifier{
		mailer:  params.Mailer,
		orders:  params.Orders,
		from:    params.From,
		admin:   strings.TrimSpace(params.AdminAddress),
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// ComposeOrderConfirmation addresses the customer with the admin in Bcc, or
// the admin alone when no customer email was given.
func (n *Notifier) ComposeOrderConfirmation(order *models.Order) (Message, error) {
	body, err := renderOrderConfirmation(order)
	if err != nil {
		return Message{}, err
	}
	msg := Message{
		From:    n.from,
		Subject: subjectPrefix + order.OrderNumber,
		Body:    body,
	}
	if order.CustomerEmail != nil && strings.TrimSpace(*order.CustomerEmail) != "" {
		msg.To = []string{strings.TrimSpace(*order.CustomerEmail)}
		msg.Bcc = []string{n.admin}
	} else {
		msg.To = []string{n.admin}
	}
	return msg, nil
}

// OrderPlaced sends the confirmation for a committed order.
func (n *Notifier) OrderPlaced(ctx context.Context, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeNotification, "order required")
	}
	msg, err := n.ComposeOrderConfirmation(order)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotification, err, "render order confirmation")
	}

	sendErr := n.mailer.Send(ctx, msg)
	// the outcome is recorded even when the send ran out of time
	ctx = context.WithoutCancel(ctx)
	if sendErr != nil {
		n.metrics.IncNotification("failed")
		if incErr := n.orders.IncrementNotificationAttempts(ctx, order.ID); incErr != nil && n.logg != nil {
			n.logg.Error(ctx, "notifications.increment_attempts_failed", incErr)
		}
		return pkgerrors.Wrap(pkgerrors.CodeNotification, sendErr, "send order confirmation")
	}

	n.metrics.IncNotification("sent")
	if err := n.orders.MarkNotified(ctx, order.ID, n.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotification, err, "mark order notified")
	}
	return nil
}

// NotifyBestEffort sends the confirmation and only logs a failure.
func (n *Notifier) NotifyBestEffort(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	if err := n.OrderPlaced(ctx, order); err != nil && n.logg != nil {
		n.logg.Error(n.logg.WithOrderNumber(ctx, order.OrderNumber), "notifications.order_placed_failed", err)
	}
}
