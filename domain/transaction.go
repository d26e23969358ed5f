package domain

import (
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessCreateTransaction = "transaction created successfully"
	MessageSuccessGetTransactions   = "transactions retrieved successfully"
	MessageSuccessGetTransaction    = "transaction retrieved successfully"
	MessageSuccessUpdateTransaction = "transaction updated successfully"
	MessageSuccessDeleteTransaction = "transaction deleted successfully"
	MessageSuccessUploadReceipt     = "receipt uploaded successfully"
	MessageSuccessEstimateMissed    = "missed purchase estimated successfully"

	MessageFailedCreateTransaction = "failed to create transaction"
	MessageFailedGetTransactions   = "failed to retrieve transactions"
	MessageFailedGetTransaction    = "failed to retrieve transaction"
	MessageFailedUpdateTransaction = "failed to update transaction"
	MessageFailedDeleteTransaction = "failed to delete transaction"
	MessageFailedUploadReceipt     = "failed to upload receipt"
	MessageFailedEstimateMissed    = "failed to estimate missed purchase"

	ErrTransactionNotFound        = NewError(ErrNotFound, "transaction not found")
	ErrTransactionProductNotFound = NewError(ErrNotFound, "transaction product not found")
	ErrEstimatedReadOnly          = NewError(ErrInvalidState, "estimated transactions cannot be modified")
	ErrEstimatedNotDeletable      = NewError(ErrConflict, "estimated transactions cannot be deleted")
)

type (
	TransactionProductRequest struct {
		ProductID string              `json:"product_id" validate:"required,uuid"`
		Quantity  decimal.Decimal     `json:"quantity" validate:"gt=0"`
		UnitPrice decimal.NullDecimal `json:"unit_price" validate:"omitempty,gte=0"`
	}

	// CreateTransactionRequest records a manual purchase. When TotalAmount is
	// absent it is computed, so every product must then carry a unit price.
	CreateTransactionRequest struct {
		TransactionDate string                      `json:"transaction_date" validate:"required,datetime=2006-01-02"`
		TotalAmount     decimal.NullDecimal         `json:"total_amount" validate:"omitempty,gte=0"`
		Products        []TransactionProductRequest `json:"products" validate:"required,min=1,dive"`
	}

	// UpdateTransactionProductRequest without an ID adds a product row.
	// With an ID it edits that row, or removes it when Delete is set.
	UpdateTransactionProductRequest struct {
		ID        string              `json:"id" validate:"omitempty,uuid"`
		ProductID string              `json:"product_id" validate:"omitempty,uuid"`
		Quantity  decimal.NullDecimal `json:"quantity" validate:"omitempty,gt=0"`
		UnitPrice decimal.NullDecimal `json:"unit_price" validate:"omitempty,gte=0"`
		Delete    bool                `json:"_delete"`
	}

	UpdateTransactionRequest struct {
		TransactionDate *string                           `json:"transaction_date" validate:"omitempty,datetime=2006-01-02"`
		TotalAmount     decimal.NullDecimal               `json:"total_amount" validate:"omitempty,gte=0"`
		Products        []UpdateTransactionProductRequest `json:"products" validate:"omitempty,dive"`
	}

	TransactionFilter struct {
		TransactionType string
		DateFrom        *time.Time
		DateTo          *time.Time
		Page            int
		Limit           int
	}

	EstimateMissedRequest struct {
		MissedDate string `json:"missed_date" validate:"required,datetime=2006-01-02"`
	}

	UploadReceiptRequest struct {
		ReceiptImage *multipart.FileHeader `json:"receipt_image" form:"receipt_image" validate:"required"`
	}

	TransactionProductResponse struct {
		ID          string              `json:"id"`
		ProductID   string              `json:"product_id"`
		ProductName string              `json:"product_name"`
		Quantity    decimal.Decimal     `json:"quantity"`
		UnitPrice   decimal.NullDecimal `json:"unit_price"`
		TotalPrice  decimal.NullDecimal `json:"total_price"`
	}

	TransactionResponse struct {
		ID              string                       `json:"id"`
		TransactionDate string                       `json:"transaction_date"`
		TransactionType string                       `json:"transaction_type"`
		TotalAmount     decimal.Decimal              `json:"total_amount"`
		ReceiptImage    string                       `json:"receipt_image,omitempty"`
		ShoppingListID  *string                      `json:"shopping_list_id"`
		Products        []TransactionProductResponse `json:"products"`
		CreatedAt       time.Time                    `json:"created_at"`
		UpdatedAt       time.Time                    `json:"updated_at"`
	}
)
