// Package testutil opens throwaway sqlite databases for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	migration "Grocery-Tracker/cmd/database/migrate"
	"Grocery-Tracker/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_foreign_keys=1", name, uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

// Date returns midnight UTC for a YYYY-MM-DD string.
func Date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func Dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func NullDec(value string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(value))
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Role:     "user",
		Profile:  &entities.UserProfile{},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateProduct(t *testing.T, db *gorm.DB, name string, referencePrice string) *entities.Product {
	t.Helper()
	product := &entities.Product{Name: name, Category: "General"}
	if referencePrice != "" {
		product.ReferencePrice = NullDec(referencePrice)
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// CreateList stores a list directly, bypassing the service rules.
func CreateList(t *testing.T, db *gorm.DB, userID uuid.UUID, date time.Time, status entities.ListStatus, items ...entities.ShoppingListItem) *entities.ShoppingList {
	t.Helper()
	for i := range items {
		items[i].Position = i
	}
	list := &entities.ShoppingList{
		UserID:        userID,
		ScheduledDate: date,
		Status:        status,
		Items:         items,
	}
	require.NoError(t, db.Create(list).Error)
	return list
}

// FixedClock returns a clock stuck at the given instant.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
