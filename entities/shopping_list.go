package entities

import (
	"time"

	"Grocery-Tracker/pkg/amount"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListStatus string

const (
	ListStatusInProgress ListStatus = "IN_PROGRESS"
	ListStatusTriaged    ListStatus = "TRIAGED"
	ListStatusPending    ListStatus = "PENDING"
	ListStatusCompleted  ListStatus = "COMPLETED"
	ListStatusExpired    ListStatus = "EXPIRED"
)

// DeletableStatuses are the statuses a list may be deleted from.
var DeletableStatuses = []ListStatus{ListStatusInProgress, ListStatusTriaged, ListStatusPending}

// CompletableStatuses are the statuses a list may be completed from.
var CompletableStatuses = []ListStatus{ListStatusTriaged, ListStatusPending}

func (s ListStatus) Valid() bool {
	switch s {
	case ListStatusInProgress, ListStatusTriaged, ListStatusPending, ListStatusCompleted, ListStatusExpired:
		return true
	}
	return false
}

func (s ListStatus) IsTerminal() bool {
	return s == ListStatusCompleted || s == ListStatusExpired
}

func (s ListStatus) in(set []ListStatus) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

type ShoppingList struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ScheduledDate time.Time  `gorm:"type:date;not null;index" json:"scheduled_date"`
	Status        ListStatus `gorm:"size:20;not null;default:IN_PROGRESS;index" json:"status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	User        *User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items       []ShoppingListItem `gorm:"foreignKey:ShoppingListID;constraint:OnDelete:CASCADE" json:"items"`
	Transaction *Transaction       `gorm:"foreignKey:ShoppingListID;constraint:OnDelete:SET NULL" json:"-"`
	Timestamp
}

func (l *ShoppingList) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	if l.Status == "" {
		l.Status = ListStatusInProgress
	}
	return nil
}

func (l *ShoppingList) CanBeDeleted() bool {
	return l.Status.in(DeletableStatuses)
}

func (l *ShoppingList) CanBeCompleted() bool {
	return l.Status.in(CompletableStatuses)
}

func (l *ShoppingList) PredictedTotal() decimal.Decimal {
	return amount.Aggregate(l.Items, ShoppingListItem.PredictedTotal)
}

func (l *ShoppingList) ActualTotal() decimal.Decimal {
	return amount.Aggregate(l.Items, ShoppingListItem.ActualTotal)
}

// ShoppingListItem is unique per (list, product). Position keeps insertion order.
type ShoppingListItem struct {
	ID                uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	ShoppingListID    uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_list_product" json:"shopping_list_id"`
	ProductID         uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_list_product" json:"product_id"`
	Position          int                 `gorm:"not null;default:0" json:"-"`
	PredictedQuantity decimal.Decimal     `gorm:"type:decimal(10,3);not null" json:"predicted_quantity"`
	PredictedPrice    decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"predicted_price"`
	ActualQuantity    decimal.NullDecimal `gorm:"type:decimal(10,3)" json:"actual_quantity"`
	UnitPrice         decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	IsPurchased       bool                `gorm:"not null;default:false" json:"is_purchased"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Timestamp
}

func (i *ShoppingListItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (i ShoppingListItem) PredictedTotal() decimal.Decimal {
	return amount.LineTotal(i.PredictedQuantity, i.PredictedPrice)
}

func (i ShoppingListItem) ActualTotal() decimal.Decimal {
	if !i.ActualQuantity.Valid {
		return decimal.Zero
	}
	return amount.LineTotal(i.ActualQuantity.Decimal, i.UnitPrice)
}
