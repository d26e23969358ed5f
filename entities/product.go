package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultProductUnit = "item"

type Product struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Name           string              `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Category       string              `gorm:"size:50" json:"category"`
	DefaultUnit    string              `gorm:"size:20;not null;default:item" json:"default_unit"`
	ReferencePrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"reference_price"`

	Timestamp
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.DefaultUnit == "" {
		p.DefaultUnit = DefaultProductUnit
	}
	return nil
}
