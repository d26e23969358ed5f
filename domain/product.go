package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessCreateProduct = "product created successfully"
	MessageSuccessGetProducts   = "products retrieved successfully"
	MessageSuccessGetProduct    = "product retrieved successfully"
	MessageSuccessDeleteProduct = "product deleted successfully"

	MessageFailedCreateProduct = "failed to create product"
	MessageFailedGetProducts   = "failed to retrieve products"
	MessageFailedGetProduct    = "failed to retrieve product"
	MessageFailedDeleteProduct = "failed to delete product"

	ErrProductNotFound  = NewError(ErrNotFound, "product not found")
	ErrProductNameTaken = NewError(ErrConflict, "a product with this name already exists")
	ErrProductInUse     = NewError(ErrConflict, "product is referenced by shopping lists or transactions")
)

// ErrUnknownProduct reports a product reference in a request that the catalog does not hold.
func ErrUnknownProduct(field string) error {
	return NewFieldError(field, "product does not exist")
}

type (
	CreateProductRequest struct {
		Name           string              `json:"name" validate:"required,max=100"`
		Category       string              `json:"category" validate:"omitempty,max=50"`
		DefaultUnit    string              `json:"default_unit" validate:"omitempty,max=20"`
		ReferencePrice decimal.NullDecimal `json:"reference_price" validate:"omitempty,gte=0"`
	}

	ProductFilter struct {
		Search   string
		Category string
	}

	ProductResponse struct {
		ID             string              `json:"id"`
		Name           string              `json:"name"`
		Category       string              `json:"category"`
		DefaultUnit    string              `json:"default_unit"`
		ReferencePrice decimal.NullDecimal `json:"reference_price"`
		CreatedAt      time.Time           `json:"created_at"`
	}
)
