package shoppinglist

import (
	"context"
	"errors"
	"time"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"

	"gorm.io/gorm"
)

type (
	ShoppingListRepository interface {
		CreateShoppingList(ctx context.Context, list *entities.ShoppingList) error
		GetShoppingListByID(ctx context.Context, id string) (*entities.ShoppingList, error)
		GetShoppingLists(ctx context.Context, userID string, filter domain.ShoppingListFilter, today time.Time) ([]*entities.ShoppingList, int64, error)
		ExistsForDate(ctx context.Context, userID string, date time.Time) (bool, error)
		UpdateShoppingList(ctx context.Context, list *entities.ShoppingList, from entities.ListStatus, replaceItems bool) error
		SaveOutcome(ctx context.Context, list *entities.ShoppingList, from entities.ListStatus, items []*entities.ShoppingListItem) error
		DeleteShoppingList(ctx context.Context, id string) error

		CompleteShoppingList(ctx context.Context, list *entities.ShoppingList, items []*entities.ShoppingListItem, transaction *entities.Transaction) error
		ConvertShoppingList(ctx context.Context, list *entities.ShoppingList, transaction *entities.Transaction) error
	}

	shoppingListRepository struct {
		db *gorm.DB
	}
)

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func (r *shoppingListRepository) CreateShoppingList(ctx context.Context, list *entities.ShoppingList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *shoppingListRepository) GetShoppingListByID(ctx context.Context, id string) (*entities.ShoppingList, error) {
	var list entities.ShoppingList
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Preload("Items.Product").
		Preload("Transaction").
		Where("id = ?", id).
		First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *shoppingListRepository) filtered(ctx context.Context, userID string, filter domain.ShoppingListFilter, today time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.ShoppingList{}).Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ScheduledAfter != nil {
		query = query.Where("scheduled_date >= ?", *filter.ScheduledAfter)
	}
	if filter.ScheduledBefore != nil {
		query = query.Where("scheduled_date <= ?", *filter.ScheduledBefore)
	}
	if filter.IsExpired != nil {
		if *filter.IsExpired {
			query = query.Where("scheduled_date < ? AND status <> ?", today, entities.ListStatusCompleted)
		} else {
			query = query.Where("(scheduled_date >= ? OR status = ?)", today, entities.ListStatusCompleted)
		}
	}
	return query
}

func (r *shoppingListRepository) GetShoppingLists(ctx context.Context, userID string, filter domain.ShoppingListFilter, today time.Time) ([]*entities.ShoppingList, int64, error) {
	var lists []*entities.ShoppingList
	var count int64

	if err := r.filtered(ctx, userID, filter, today).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := r.filtered(ctx, userID, filter, today).
		Preload("Items", preloadItems).
		Preload("Items.Product").
		Preload("Transaction").
		Order("created_at desc").
		Offset(offset).
		Limit(filter.Limit).
		Find(&lists).Error; err != nil {
		return nil, 0, err
	}

	return lists, count, nil
}

func (r *shoppingListRepository) ExistsForDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.ShoppingList{}).
		Where("user_id = ? AND scheduled_date = ?", userID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// updateHeader writes the list header only if the stored status is still
// from, so a list never moves back past a concurrent completion.
func updateHeader(tx *gorm.DB, list *entities.ShoppingList, from entities.ListStatus) error {
	res := tx.Model(&entities.ShoppingList{}).
		Where("id = ? AND status = ?", list.ID, from).
		Updates(map[string]interface{}{
			"scheduled_date": list.ScheduledDate,
			"status":         list.Status,
			"completed_at":   list.CompletedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrListChanged
	}
	return nil
}

func updateItemOutcomes(tx *gorm.DB, items []*entities.ShoppingListItem) error {
	for _, item := range items {
		if err := tx.Model(&entities.ShoppingListItem{}).
			Where("id = ? AND shopping_list_id = ?", item.ID, item.ShoppingListID).
			Updates(map[string]interface{}{
				"is_purchased":    item.IsPurchased,
				"actual_quantity": item.ActualQuantity,
				"unit_price":      item.UnitPrice,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateShoppingList writes the header and, when replaceItems is set, swaps the
// stored items for list.Items. from is the status the caller loaded.
func (r *shoppingListRepository) UpdateShoppingList(ctx context.Context, list *entities.ShoppingList, from entities.ListStatus, replaceItems bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateHeader(tx, list, from); err != nil {
			return err
		}
		if !replaceItems {
			return nil
		}

		if err := tx.Where("shopping_list_id = ?", list.ID).Delete(&entities.ShoppingListItem{}).Error; err != nil {
			return err
		}
		if len(list.Items) == 0 {
			return nil
		}
		for i := range list.Items {
			list.Items[i].ShoppingListID = list.ID
		}
		return tx.Omit("Product").Create(&list.Items).Error
	})
}

func (r *shoppingListRepository) SaveOutcome(ctx context.Context, list *entities.ShoppingList, from entities.ListStatus, items []*entities.ShoppingListItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateHeader(tx, list, from); err != nil {
			return err
		}
		return updateItemOutcomes(tx, items)
	})
}

// DeleteShoppingList removes a deletable list and its items. Transactions that
// point at the list are kept with their reference cleared.
func (r *shoppingListRepository) DeleteShoppingList(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Transaction{}).
			Where("shopping_list_id = ?", id).
			Update("shopping_list_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("shopping_list_id = ?", id).Delete(&entities.ShoppingListItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND status IN ?", id, entities.DeletableStatuses).Delete(&entities.ShoppingList{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrListNotDeletable
		}
		return nil
	})
}

// CompleteShoppingList moves the list to COMPLETED, records the item outcomes
// and stores the ACTUAL transaction, all or nothing. The status guard in the
// UPDATE makes a concurrent second completion fail instead of double booking.
func (r *shoppingListRepository) CompleteShoppingList(ctx context.Context, list *entities.ShoppingList, items []*entities.ShoppingListItem, transaction *entities.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.ShoppingList{}).
			Where("id = ? AND user_id = ? AND status IN ?", list.ID, list.UserID, entities.CompletableStatuses).
			Updates(map[string]interface{}{
				"status":       list.Status,
				"completed_at": list.CompletedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrListNotCompletable
		}

		if err := updateItemOutcomes(tx, items); err != nil {
			return err
		}

		return createTransaction(tx, transaction)
	})
}

// ConvertShoppingList stores the ESTIMATED transaction for an expired list.
// A list converts at most once.
func (r *shoppingListRepository) ConvertShoppingList(ctx context.Context, list *entities.ShoppingList, transaction *entities.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.ShoppingList{}).
			Where("id = ? AND user_id = ? AND status = ?", list.ID, list.UserID, entities.ListStatusExpired).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrListNotExpired
		}

		if err := tx.Model(&entities.Transaction{}).
			Where("shopping_list_id = ?", list.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrListAlreadyConverted
		}

		return createTransaction(tx, transaction)
	})
}

func createTransaction(tx *gorm.DB, transaction *entities.Transaction) error {
	if err := tx.Create(transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrListAlreadyConverted
		}
		return err
	}
	return nil
}
