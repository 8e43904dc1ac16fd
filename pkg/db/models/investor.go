package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Investor is capital put into the event that must be handed back. Returns
// are bounded: AmountReturned can never exceed Principal.
type Investor struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	Principal      decimal.Decimal `gorm:"column:principal;type:decimal(12,2);not null"`
	AmountReturned decimal.Decimal `gorm:"column:amount_returned;type:decimal(12,2);not null;default:0"`
	Returned       bool            `gorm:"column:returned;not null;default:false"`
	ReturnDate     *string         `gorm:"column:return_date"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *Investor) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Remaining is the capital still owed back, never negative.
func (i *Investor) Remaining() decimal.Decimal {
	remaining := i.Principal.Sub(i.AmountReturned)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
