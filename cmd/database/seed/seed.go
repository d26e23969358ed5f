// Package seed loads the reference product catalog.
package seed

import (
	"context"
	"errors"
	"fmt"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type catalogEntry struct {
	name     string
	category string
	unit     string
	price    string
}

var catalog = []catalogEntry{
	{"Apples", "Produce", "kg", "2.49"},
	{"Bananas", "Produce", "kg", "1.29"},
	{"Tomatoes", "Produce", "kg", "3.10"},
	{"Onions", "Produce", "kg", "1.60"},
	{"Potatoes", "Produce", "kg", "1.15"},
	{"Milk", "Dairy", "l", "1.05"},
	{"Butter", "Dairy", "item", "2.79"},
	{"Cheddar", "Dairy", "item", "3.99"},
	{"Yogurt", "Dairy", "item", "0.89"},
	{"Eggs", "Dairy", "dozen", "3.20"},
	{"Bread", "Bakery", "item", "1.85"},
	{"Rice", "Pantry", "kg", "2.30"},
	{"Pasta", "Pantry", "item", "1.40"},
	{"Olive Oil", "Pantry", "l", "7.50"},
	{"Coffee", "Pantry", "item", "5.90"},
	{"Chicken Breast", "Meat", "kg", "8.99"},
	{"Ground Beef", "Meat", "kg", "9.49"},
	{"Dish Soap", "Household", "item", "2.15"},
	{"Toilet Paper", "Household", "item", ""},
}

// Catalog inserts the products that are not there yet, matched by name, and
// reports how many were created.
func Catalog(ctx context.Context, db *gorm.DB) (int, error) {
	created := 0
	for _, entry := range catalog {
		product := entities.Product{
			Name:        entry.name,
			Category:    entry.category,
			DefaultUnit: entry.unit,
		}
		if entry.price != "" {
			product.ReferencePrice = decimal.NewNullDecimal(decimal.RequireFromString(entry.price))
		}

		var count int64
		if err := db.WithContext(ctx).Model(&entities.Product{}).Where("name = ?", entry.name).Count(&count).Error; err != nil {
			return created, fmt.Errorf("seed product %q: %w", entry.name, err)
		}
		if count > 0 {
			continue
		}
		if err := db.WithContext(ctx).Create(&product).Error; err != nil {
			return created, fmt.Errorf("seed product %q: %w", entry.name, err)
		}
		created++
	}
	return created, nil
}

// Admin creates a catalog administrator unless the username is taken.
func Admin(ctx context.Context, db *gorm.DB, username, email, password string) error {
	var existing entities.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &entities.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     domain.RoleAdmin,
		Profile:  &entities.UserProfile{},
	}
	return db.WithContext(ctx).Create(admin).Error
}
