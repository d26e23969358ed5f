package product

import (
	"context"
	"strings"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ProductRepository interface {
		CreateProduct(ctx context.Context, product *entities.Product) error
		GetProductByID(ctx context.Context, id string) (*entities.Product, error)
		GetProductByName(ctx context.Context, name string) (*entities.Product, error)
		GetProducts(ctx context.Context, filter domain.ProductFilter) ([]*entities.Product, error)
		GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Product, error)
		IsProductReferenced(ctx context.Context, id string) (bool, error)
		DeleteProduct(ctx context.Context, id string) error
	}

	productRepository struct {
		db *gorm.DB
	}
)

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetProductByName(ctx context.Context, name string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]*entities.Product, error) {
	var products []*entities.Product

	query := r.db.WithContext(ctx).Model(&entities.Product{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(filter.Search))+"%")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if err := query.Order("name asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Product, error) {
	found := make(map[uuid.UUID]*entities.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var products []*entities.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (r *productRepository) IsProductReferenced(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.ShoppingListItem{}).
		Where("product_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := r.db.WithContext(ctx).Model(&entities.TransactionProduct{}).
		Where("product_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Product{}).Error
}
