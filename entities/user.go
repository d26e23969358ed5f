package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShoppingFrequency string

const (
	FrequencyWeekly      ShoppingFrequency = "WEEKLY"
	FrequencyFortnightly ShoppingFrequency = "FORTNIGHTLY"
	FrequencyMonthly     ShoppingFrequency = "MONTHLY"
	FrequencyCustom      ShoppingFrequency = "CUSTOM"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:user" json:"role"`

	Profile *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Timestamp
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// UserProfile carries shopping preferences. PreferredShoppingDay is 0 (Monday) to 6 (Sunday).
type UserProfile struct {
	ID                         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID                     uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	PreferredShoppingDay       *int              `json:"preferred_shopping_day"`
	PreferredShoppingFrequency ShoppingFrequency `gorm:"size:20;not null;default:WEEKLY" json:"preferred_shopping_frequency"`

	Timestamp
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.PreferredShoppingFrequency == "" {
		p.PreferredShoppingFrequency = FrequencyWeekly
	}
	return nil
}
