package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their items.
// Items share one insert timestamp, so they are listed the way the cart
// shows its lines: by name, then product id.
const itemOrder = "product_name ASC, product_id ASC, id ASC"

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListPendingNotification(ctx context.Context, maxAttempts int, since time.Time, limit int) ([]models.Order, error)
	MarkNotified(ctx context.Context, orderID uuid.UUID, at time.Time) error
	IncrementNotificationAttempts(ctx context.Context, orderID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// Create inserts the order together with its items.
func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order(itemOrder)
		}).
		First(&order, "order_number = ?", orderNumber).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListPendingNotification returns orders created since the cutoff whose
// confirmation mail has not gone out and still has attempts left.
func (r *repository) ListPendingNotification(ctx context.Context, maxAttempts int, since time.Time, limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order(itemOrder)
		}).
		Where("notified_at IS NULL AND notification_attempts < ? AND created_at >= ?", maxAttempts, since).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

func (r *repository) MarkNotified(ctx context.Context, orderID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("notified_at", at).
		Error
}

func (r *repository) IncrementNotificationAttempts(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("notification_attempts", gorm.Expr("notification_attempts + ?", 1)).
		Error
}
