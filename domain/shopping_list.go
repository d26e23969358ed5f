package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinGeneratedLists = 1
	MaxGeneratedLists = 12
)

var (
	MessageSuccessCreateShoppingList   = "shopping list created successfully"
	MessageSuccessGetShoppingLists     = "shopping lists retrieved successfully"
	MessageSuccessGetShoppingList      = "shopping list retrieved successfully"
	MessageSuccessUpdateShoppingList   = "shopping list updated successfully"
	MessageSuccessDeleteShoppingList   = "shopping list deleted successfully"
	MessageSuccessCompleteShoppingList = "shopping list completed successfully"
	MessageSuccessConvertShoppingList  = "expired shopping list converted to transaction successfully"
	MessageSuccessGenerateLists        = "shopping lists generated successfully"
	MessageSuccessSimulate             = "shopping simulation completed successfully"

	MessageFailedCreateShoppingList   = "failed to create shopping list"
	MessageFailedGetShoppingLists     = "failed to retrieve shopping lists"
	MessageFailedGetShoppingList      = "failed to retrieve shopping list"
	MessageFailedUpdateShoppingList   = "failed to update shopping list"
	MessageFailedDeleteShoppingList   = "failed to delete shopping list"
	MessageFailedCompleteShoppingList = "failed to complete shopping list"
	MessageFailedConvertShoppingList  = "failed to convert shopping list"
	MessageFailedGenerateLists        = "failed to generate shopping lists"
	MessageFailedSimulate             = "failed to run shopping simulation"

	ErrShoppingListNotFound = NewError(ErrNotFound, "shopping list not found")
	ErrListNotDeletable     = NewError(ErrConflict, "only in progress, triaged or pending shopping lists can be deleted")
	ErrListNotCompletable   = NewError(ErrInvalidState, "only triaged or pending shopping lists can be completed")
	ErrListNotExpired       = NewError(ErrInvalidState, "only expired shopping lists can be converted")
	ErrListAlreadyConverted = NewError(ErrConflict, "shopping list has already been converted to a transaction")
	ErrListReadOnly         = NewError(ErrInvalidState, "completed or expired shopping lists cannot be modified")
	ErrListChanged          = NewError(ErrInvalidState, "shopping list status changed while it was being updated")
)

type (
	ShoppingListItemRequest struct {
		ProductID         string              `json:"product_id" validate:"required,uuid"`
		PredictedQuantity decimal.Decimal     `json:"predicted_quantity" validate:"gt=0"`
		PredictedPrice    decimal.NullDecimal `json:"predicted_price" validate:"omitempty,gte=0"`
	}

	CreateShoppingListRequest struct {
		ScheduledDate string                    `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
		Items         []ShoppingListItemRequest `json:"items" validate:"omitempty,dive"`
	}

	// UpdateShoppingListRequest leaves a field untouched when it is absent.
	// A non-nil Items slice replaces the whole item set.
	UpdateShoppingListRequest struct {
		ScheduledDate *string                   `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
		Status        *string                   `json:"status" validate:"omitempty,oneof=IN_PROGRESS TRIAGED PENDING COMPLETED EXPIRED"`
		Items         []ShoppingListItemRequest `json:"items" validate:"omitempty,dive"`
	}

	ShoppingListFilter struct {
		Status          string
		ScheduledAfter  *time.Time
		ScheduledBefore *time.Time
		IsExpired       *bool
		Page            int
		Limit           int
	}

	ShoppingListItemResponse struct {
		ID                string              `json:"id"`
		ProductID         string              `json:"product_id"`
		ProductName       string              `json:"product_name"`
		ProductCategory   string              `json:"product_category"`
		PredictedQuantity decimal.Decimal     `json:"predicted_quantity"`
		PredictedPrice    decimal.NullDecimal `json:"predicted_price"`
		ActualQuantity    decimal.NullDecimal `json:"actual_quantity"`
		UnitPrice         decimal.NullDecimal `json:"unit_price"`
		IsPurchased       bool                `json:"is_purchased"`
		PredictedTotal    decimal.Decimal     `json:"predicted_total"`
		ActualTotal       decimal.Decimal     `json:"actual_total"`
	}

	ShoppingListResponse struct {
		ID                   string                     `json:"id"`
		ScheduledDate        string                     `json:"scheduled_date"`
		Status               string                     `json:"status"`
		CompletedAt          *time.Time                 `json:"completed_at"`
		CanBeDeleted         bool                       `json:"can_be_deleted"`
		ItemCount            int                        `json:"item_count"`
		TotalPredictedAmount decimal.Decimal            `json:"total_predicted_amount"`
		TotalActualAmount    decimal.Decimal            `json:"total_actual_amount"`
		TransactionID        *string                    `json:"transaction_id"`
		Items                []ShoppingListItemResponse `json:"items"`
		CreatedAt            time.Time                  `json:"created_at"`
		UpdatedAt            time.Time                  `json:"updated_at"`
	}

	CompletionItemRequest struct {
		ItemID         string              `json:"item_id" validate:"required,uuid"`
		IsPurchased    bool                `json:"is_purchased"`
		ActualQuantity decimal.NullDecimal `json:"actual_quantity" validate:"omitempty,gt=0"`
		UnitPrice      decimal.NullDecimal `json:"unit_price" validate:"omitempty,gte=0"`
	}

	CompleteShoppingListRequest struct {
		Items       []CompletionItemRequest `json:"items" validate:"required,min=1,dive"`
		TotalAmount decimal.NullDecimal     `json:"total_amount" validate:"omitempty,gte=0"`
	}

	CompleteShoppingListResponse struct {
		ShoppingList  ShoppingListResponse `json:"shopping_list"`
		TransactionID string               `json:"transaction_id"`
	}

	ConvertShoppingListResponse struct {
		ShoppingListID string `json:"shopping_list_id"`
		TransactionID  string `json:"transaction_id"`
	}

	GenerateShoppingListsRequest struct {
		NumLists  int    `json:"num_lists" validate:"required,min=1,max=12"`
		StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	}

	GenerateShoppingListsResponse struct {
		CreatedLists int                    `json:"created_lists"`
		Lists        []ShoppingListResponse `json:"lists"`
	}

	// SimulateRequest drives the demo simulator. CompletionPattern, when sent,
	// must hold exactly NumLists entries.
	SimulateRequest struct {
		NumLists          int    `json:"num_lists" validate:"required,min=1,max=12"`
		StartDate         string `json:"start_date" validate:"required,datetime=2006-01-02"`
		CompletionPattern []bool `json:"completion_pattern"`
	}

	SimulatedList struct {
		ID            string `json:"id"`
		ScheduledDate string `json:"scheduled_date"`
		Status        string `json:"status"`
	}

	SimulateResponse struct {
		SimulatedLists       []SimulatedList `json:"simulated_lists"`
		FinalPendingProducts int             `json:"final_pending_products"`
		CompletionRate       float64         `json:"completion_rate"`
	}
)
