package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Order is the persisted result of a checkout.
type Order struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber          string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerName         string              `gorm:"column:customer_name;not null"`
	CustomerEmail        *string             `gorm:"column:customer_email"`
	CustomerPhone        string              `gorm:"column:customer_phone;not null"`
	CustomerAddress      string              `gorm:"column:customer_address;not null"`
	PaymentMethod        enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	TotalAmount          decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status               enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Notes                string              `gorm:"column:notes;not null;default:''"`
	NotifiedAt           *time.Time          `gorm:"column:notified_at"`
	NotificationAttempts int                 `gorm:"column:notification_attempts;not null;default:0"`
	Items                []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	if o.Status == "" {
		o.Status = enums.OrderStatusPending
	}
	return nil
}

// OrderItem snapshots a product's name and price at the moment of purchase.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	ProductName  string          `gorm:"column:product_name;not null"`
	ProductPrice decimal.Decimal `gorm:"column:product_price;type:numeric(10,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
