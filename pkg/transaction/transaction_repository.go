package transaction

import (
	"context"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"

	"gorm.io/gorm"
)

type (
	TransactionRepository interface {
		CreateTransaction(ctx context.Context, transaction *entities.Transaction) error
		GetTransactionByID(ctx context.Context, id string) (*entities.Transaction, error)
		GetTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]*entities.Transaction, int64, error)
		UpdateTransaction(ctx context.Context, transaction *entities.Transaction, removedProductIDs []string) error
		UpdateReceiptImage(ctx context.Context, id string, link string) error
		DeleteTransaction(ctx context.Context, id string) error
	}

	transactionRepository struct {
		db *gorm.DB
	}
)

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func preloadProducts(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func (r *transactionRepository) CreateTransaction(ctx context.Context, transaction *entities.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) GetTransactionByID(ctx context.Context, id string) (*entities.Transaction, error) {
	var transaction entities.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Products", preloadProducts).
		Preload("Products.Product").
		Where("id = ?", id).
		First(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) filtered(ctx context.Context, userID string, filter domain.TransactionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Transaction{}).Where("user_id = ?", userID)

	if filter.TransactionType != "" {
		query = query.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("transaction_date <= ?", *filter.DateTo)
	}
	return query
}

func (r *transactionRepository) GetTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]*entities.Transaction, int64, error) {
	var transactions []*entities.Transaction
	var count int64

	if err := r.filtered(ctx, userID, filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := r.filtered(ctx, userID, filter).
		Preload("Products", preloadProducts).
		Preload("Products.Product").
		Order("transaction_date desc").
		Order("created_at desc").
		Offset(offset).
		Limit(filter.Limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, count, nil
}

// UpdateTransaction writes the header, upserts transaction.Products and removes
// the rows listed in removedProductIDs in one database transaction.
func (r *transactionRepository) UpdateTransaction(ctx context.Context, transaction *entities.Transaction, removedProductIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Transaction{}).
			Where("id = ?", transaction.ID).
			Updates(map[string]interface{}{
				"transaction_date": transaction.TransactionDate,
				"total_amount":     transaction.TotalAmount,
			}).Error; err != nil {
			return err
		}

		if len(removedProductIDs) > 0 {
			if err := tx.Where("transaction_id = ? AND id IN ?", transaction.ID, removedProductIDs).
				Delete(&entities.TransactionProduct{}).Error; err != nil {
				return err
			}
		}

		for i := range transaction.Products {
			p := &transaction.Products[i]
			p.TransactionID = transaction.ID
			if err := tx.Omit("Product").Save(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *transactionRepository) UpdateReceiptImage(ctx context.Context, id string, link string) error {
	return r.db.WithContext(ctx).Model(&entities.Transaction{}).
		Where("id = ?", id).
		Update("receipt_image", link).Error
}

func (r *transactionRepository) DeleteTransaction(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", id).Delete(&entities.TransactionProduct{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Transaction{}).Error
	})
}
