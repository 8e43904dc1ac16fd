package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Supplier is an obligation the event owes. AmountPaid accumulates payable
// settlements; Paid flips once AmountPaid covers Total and stays set even if
// later payments overshoot.
type Supplier struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	Total           decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null"`
	AmountPaid      decimal.Decimal `gorm:"column:amount_paid;type:decimal(12,2);not null;default:0"`
	Paid            bool            `gorm:"column:paid;not null;default:false"`
	LastPaymentDate *string         `gorm:"column:last_payment_date"`
	Notes           *string         `gorm:"column:notes"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Supplier) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Remaining is the unpaid balance, never negative.
func (s *Supplier) Remaining() decimal.Decimal {
	remaining := s.Total.Sub(s.AmountPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
