package orders

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func newOrder(number string, product *models.Product, qty int) *models.Order {
	subtotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
	return &models.Order{
		OrderNumber:     number,
		CustomerName:    "Jane Doe",
		CustomerPhone:   "0712345678",
		CustomerAddress: "Moi Avenue, Nairobi",
		PaymentMethod:   enums.PaymentMethodMpesa,
		TotalAmount:     subtotal,
		Items: []models.OrderItem{{
			ProductID:    &product.ID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			Quantity:     qty,
			Subtotal:     subtotal,
		}},
	}
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Omit("Category", "Brand").Create(product).Error)
	return product
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedProduct(t, db, "HP EliteBook", "100.00")

	_, err := repo.Create(ctx, newOrder("ORD-0A1B2C3D", product, 2))
	require.NoError(t, err)

	found, err := repo.FindByOrderNumber(ctx, "ORD-0A1B2C3D")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, found.Status)
	assert.True(t, decimal.RequireFromString("200").Equal(found.TotalAmount))
	require.Len(t, found.Items, 1)
	assert.Equal(t, "HP EliteBook", found.Items[0].ProductName)
	assert.Equal(t, 2, found.Items[0].Quantity)

	_, err = repo.FindByOrderNumber(ctx, "ORD-FFFFFFFF")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryItemsFollowCartOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	mouse := seedProduct(t, db, "Mouse", "5.00")
	bag := seedProduct(t, db, "Laptop Bag", "40.00")
	cable := seedProduct(t, db, "Cable", "2.00")

	order := newOrder("ORD-2B3C4D5E", mouse, 1)
	for _, p := range []*models.Product{bag, cable} {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: &p.ID, ProductName: p.Name, ProductPrice: p.Price, Quantity: 1, Subtotal: p.Price,
		})
	}
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	found, err := repo.FindByOrderNumber(ctx, "ORD-2B3C4D5E")
	require.NoError(t, err)
	var got []string
	for _, item := range found.Items {
		got = append(got, item.ProductName)
	}
	assert.Equal(t, []string{"Cable", "Laptop Bag", "Mouse"}, got)
}

func TestRepositoryDuplicateOrderNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedProduct(t, db, "Mouse", "5.00")

	_, err := repo.Create(ctx, newOrder("ORD-11111111", product, 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("ORD-11111111", product, 1))
	require.Error(t, err)
}

func TestItemSnapshotSurvivesProductChanges(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedProduct(t, db, "Galaxy S24", "899.99")

	_, err := repo.Create(ctx, newOrder("ORD-22222222", product, 1))
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]any{"name": "Galaxy S24 Renamed", "price": decimal.RequireFromString("10.00")}).Error)
	found, err := repo.FindByOrderNumber(ctx, "ORD-22222222")
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Galaxy S24", found.Items[0].ProductName)
	assert.True(t, decimal.RequireFromString("899.99").Equal(found.Items[0].ProductPrice))

	require.NoError(t, db.Delete(&models.Product{}, "id = ?", product.ID).Error)
	found, err = repo.FindByOrderNumber(ctx, "ORD-22222222")
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Galaxy S24", found.Items[0].ProductName)
}

func TestRepositoryNotificationBookkeeping(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedProduct(t, db, "Keyboard", "25.00")

	first, err := repo.Create(ctx, newOrder("ORD-33333333", product, 1))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newOrder("ORD-44444444", product, 1))
	require.NoError(t, err)

	since := time.Now().Add(-time.Hour)
	pending, err := repo.ListPendingNotification(ctx, 2, since, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, repo.MarkNotified(ctx, first.ID, time.Now()))
	require.NoError(t, repo.IncrementNotificationAttempts(ctx, second.ID))

	pending, err = repo.ListPendingNotification(ctx, 2, since, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ORD-44444444", pending[0].OrderNumber)
	assert.Equal(t, 1, pending[0].NotificationAttempts)
	require.Len(t, pending[0].Items, 1)

	require.NoError(t, repo.IncrementNotificationAttempts(ctx, second.ID))
	pending, err = repo.ListPendingNotification(ctx, 2, since, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRepositoryWithTxRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedProduct(t, db, "Monitor", "150.00")

	sentinel := assert.AnError
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := repo.WithTx(tx).Create(ctx, newOrder("ORD-55555555", product, 1)); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}
