package entities

import (
	"time"

	"Grocery-Tracker/pkg/amount"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeActual    TransactionType = "ACTUAL"
	TransactionTypeEstimated TransactionType = "ESTIMATED"
)

type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	TransactionDate time.Time       `gorm:"type:date;not null;index" json:"transaction_date"`
	TransactionType TransactionType `gorm:"size:10;not null;default:ACTUAL" json:"transaction_type"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	ReceiptImage    string          `json:"receipt_image,omitempty"`
	ShoppingListID  *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"shopping_list_id,omitempty"`

	User     *User                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Products []TransactionProduct `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"products"`
	Timestamp
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	if t.TransactionType == "" {
		t.TransactionType = TransactionTypeActual
	}
	return nil
}

type TransactionProduct struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID           `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	Position      int                 `gorm:"not null;default:0" json:"-"`
	Quantity      decimal.Decimal     `gorm:"type:decimal(10,3);not null" json:"quantity"`
	UnitPrice     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	TotalPrice    decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"total_price"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Timestamp
}

func (p *TransactionProduct) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// BeforeSave keeps TotalPrice derived from Quantity and UnitPrice.
func (p *TransactionProduct) BeforeSave(tx *gorm.DB) error {
	p.Recalculate()
	return nil
}

// Recalculate rounds Quantity to its stored precision and derives TotalPrice
// from the stored values.
func (p *TransactionProduct) Recalculate() {
	p.Quantity = amount.Quantity(p.Quantity)
	if p.UnitPrice.Valid {
		p.TotalPrice = decimal.NewNullDecimal(amount.LineTotal(p.Quantity, p.UnitPrice))
	} else {
		p.TotalPrice = decimal.NullDecimal{}
	}
}

// LineTotal is the total the row stores once its quantity is rounded.
func (p TransactionProduct) LineTotal() decimal.Decimal {
	return amount.LineTotal(amount.Quantity(p.Quantity), p.UnitPrice)
}
