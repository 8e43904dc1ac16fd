package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/enums"
)

// Settlement is one immutable money movement against an obligation: a payment
// to a supplier (payable) or a devolution to an investor (receivable).
type Settlement struct {
	ID           uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	Direction    enums.SettlementDirection `gorm:"column:direction;not null;index:idx_settlements_obligation"`
	ObligationID uuid.UUID                 `gorm:"column:obligation_id;type:uuid;not null;index:idx_settlements_obligation"`
	Amount       decimal.Decimal           `gorm:"column:amount;type:decimal(12,2);not null"`
	Source       enums.PaymentSource       `gorm:"column:source;not null"`
	SettledOn    string                    `gorm:"column:settled_on;not null"`
	Note         *string                   `gorm:"column:note"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
}

func (s *Settlement) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
