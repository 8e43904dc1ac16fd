package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/enums"
)

// Reversal is an append-only correction against a session's closing figures.
// Rows are recorded at the requested amount even when it exceeds what remains
// in the category; the read-time fold clamps each category at zero.
type Reversal struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	SessionID  uuid.UUID              `gorm:"column:session_id;type:uuid;not null;index"`
	Amount     decimal.Decimal        `gorm:"column:amount;type:decimal(12,2);not null"`
	Category   enums.ReversalCategory `gorm:"column:category;not null"`
	Reason     string                 `gorm:"column:reason;not null"`
	ReversedAt time.Time              `gorm:"column:reversed_at;not null"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (r *Reversal) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
