package product

import (
	"context"
	"errors"
	"strings"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	ProductService interface {
		CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.ProductResponse, error)
		GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductResponse, error)
		GetProductByID(ctx context.Context, id string) (domain.ProductResponse, error)
		DeleteProduct(ctx context.Context, id string) error
	}

	productService struct {
		productRepository ProductRepository
		cache             ProductCache
		logger            *zap.Logger
	}
)

func NewProductService(productRepository ProductRepository, cache ProductCache, logger *zap.Logger) ProductService {
	return &productService{
		productRepository: productRepository,
		cache:             cache,
		logger:            logger,
	}
}

func ToProductResponse(p *entities.Product) domain.ProductResponse {
	return domain.ProductResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Category:       p.Category,
		DefaultUnit:    p.DefaultUnit,
		ReferencePrice: p.ReferencePrice,
		CreatedAt:      p.CreatedAt,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.ProductResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ProductResponse{}, domain.NewFieldError("name", "this field is required")
	}

	if _, err := s.productRepository.GetProductByName(ctx, name); err == nil {
		return domain.ProductResponse{}, domain.ErrProductNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ProductResponse{}, err
	}

	product := &entities.Product{
		ID:             uuid.New(),
		Name:           name,
		Category:       strings.TrimSpace(req.Category),
		DefaultUnit:    strings.TrimSpace(req.DefaultUnit),
		ReferencePrice: req.ReferencePrice,
	}
	if product.ReferencePrice.Valid {
		product.ReferencePrice.Decimal = product.ReferencePrice.Decimal.Round(2)
	}

	if err := s.productRepository.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ProductResponse{}, domain.ErrProductNameTaken
		}
		return domain.ProductResponse{}, err
	}

	return ToProductResponse(product), nil
}

func (s *productService) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductResponse, error) {
	products, err := s.productRepository.GetProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, ToProductResponse(p))
	}
	return response, nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (domain.ProductResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ProductResponse{}, domain.ErrProductNotFound
	}

	if cached, ok := s.cache.Get(ctx, id); ok {
		return ToProductResponse(cached), nil
	}

	product, err := s.productRepository.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProductResponse{}, domain.ErrProductNotFound
		}
		return domain.ProductResponse{}, err
	}

	s.cache.Set(ctx, product)
	return ToProductResponse(product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrProductNotFound
	}

	if _, err := s.productRepository.GetProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrProductNotFound
		}
		return err
	}

	referenced, err := s.productRepository.IsProductReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrProductInUse
	}

	if err := s.productRepository.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.ErrProductInUse
		}
		return err
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}
