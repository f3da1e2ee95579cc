// Package testutil provides in-memory backends and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"bazaar_back_end/internal/database"
	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the schema migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewTestRedis starts a miniredis server and returns a client bound to it.
func NewTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		PhoneNumber:    "+91" + uuid.NewString()[:8],
		HashedPassword: hash,
		Role:           role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProduct inserts an active product with derived pricing filled in.
func CreateProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:                name,
		Description:         name + " description",
		Price:               price,
		PriceBeforeDiscount: price,
		PriceAfterDiscount:  price,
		ExpenditureCostINR:  price / 2,
		ProfitPerItemINR:    price / 2,
		TotalStock:          stock,
		StockRemaining:      stock,
		Category:            "general",
		IsActive:            true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// StockOf reloads a product's remaining stock.
func StockOf(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.StockRemaining
}
