package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&Category{}, &Brand{}, &Product{}))
	return conn
}

func TestCategorySlugIsUniqueAndStable(t *testing.T) {
	db := newTestDB(t)

	first := Category{Name: "Laptops & Computers"}
	require.NoError(t, db.Create(&first).Error)
	require.Equal(t, "laptops-and-computers", first.Slug)
	require.NotEqual(t, uuid.Nil, first.ID)

	second := Category{Name: "Laptops & Computers"}
	require.NoError(t, db.Create(&second).Error)
	require.Equal(t, "laptops-and-computers-2", second.Slug)

	third := Category{Name: "laptops and computers"}
	require.NoError(t, db.Create(&third).Error)
	require.Equal(t, "laptops-and-computers-3", third.Slug)

	require.NoError(t, db.Model(&first).Update("name", "Notebooks").Error)
	var reloaded Category
	require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
	require.Equal(t, "laptops-and-computers", reloaded.Slug)
}

func TestProductDefaultsOnCreate(t *testing.T) {
	db := newTestDB(t)

	product := Product{Name: "HP EliteBook 840", Price: decimal.RequireFromString("85000.00")}
	require.NoError(t, db.Create(&product).Error)
	require.Equal(t, "hp-elitebook-840", product.Slug)
	require.Equal(t, "in_stock", product.StockStatus.String())

	explicit := Brand{Name: "Hewlett Packard", Slug: "hp"}
	require.NoError(t, db.Create(&explicit).Error)
	require.Equal(t, "hp", explicit.Slug)
}
