package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"go.uber.org/multierr"
)

const (
	defaultNotificationMaxAttempts = 5
	defaultNotificationWindow      = 72 * time.Hour
	defaultNotificationBatch       = 50
)

type pendingNotificationLister interface {
	ListPendingNotification(ctx context.Context, maxAttempts int, since time.Time, limit int) ([]models.Order, error)
}

type orderNotifier interface {
	OrderPlaced(ctx context.Context, order *models.Order) error
}

// OrderNotificationRetryJobParams wires the confirmation resend job.
type OrderNotificationRetryJobParams struct {
	Logger      *logger.Logger
	Orders      pendingNotificationLister
	Notifier    orderNotifier
	MaxAttempts int
	Window      time.Duration
	BatchSize   int
}

// NewOrderNotificationRetryJob resends confirmations for recent orders whose
// mail never went out.
func NewOrderNotificationRetryJob(params OrderNotificationRetryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultNotificationMaxAttempts
	}
	window := params.Window
	if window <= 0 {
		window = defaultNotificationWindow
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultNotificationBatch
	}
	return &orderNotificationRetryJob{
		logg:        params.Logger,
		orders:      params.Orders,
		notifier:    params.Notifier,
		maxAttempts: maxAttempts,
		window:      window,
		batch:       batch,
		now:         time.Now,
	}, nil
}

type orderNotificationRetryJob struct {
	logg        *logger.Logger
	orders      pendingNotificationLister
	notifier    orderNotifier
	maxAttempts int
	window      time.Duration
	batch       int
	now         func() time.Time
}

func (j *orderNotificationRetryJob) Name() string { return "order-notification-retry" }

func (j *orderNotificationRetryJob) Run(ctx context.Context) error {
	since := j.now().UTC().Add(-j.window)
	pending, err := j.orders.ListPendingNotification(ctx, j.maxAttempts, since, j.batch)
	if err != nil {
		return fmt.Errorf("list pending notifications: %w", err)
	}

	var (
		combined error
		sent     int
	)
	for i := range pending {
		order := &pending[i]
		if err := j.notifier.OrderPlaced(ctx, order); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("order %s: %w", order.OrderNumber, err))
			continue
		}
		sent++
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"pending": len(pending),
		"sent":    sent,
		"failed":  len(pending) - sent,
	}), "order notification retry finished")
	return combined
}
