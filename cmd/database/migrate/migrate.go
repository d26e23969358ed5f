package migration

import (
	"fmt"

	"Grocery-Tracker/entities"

	"gorm.io/gorm"
)

// Migrate creates or updates every table. Models are listed parents first so
// foreign keys always point at an existing table.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			return fmt.Errorf("enable uuid-ossp: %w", err)
		}
	}

	models := []struct {
		name  string
		model interface{}
	}{
		{"user", &entities.User{}},
		{"user profile", &entities.UserProfile{}},
		{"product", &entities.Product{}},
		{"shopping list", &entities.ShoppingList{}},
		{"shopping list item", &entities.ShoppingListItem{}},
		{"transaction", &entities.Transaction{}},
		{"transaction product", &entities.TransactionProduct{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	return nil
}
