package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/enums"
)

// CashSession is one operator's shift at the register on a given civil date.
// The monetary figures written at close are never rewritten by reversals;
// effective figures are folded from the reversal log at read time.
type CashSession struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SessionDate string              `gorm:"column:session_date;not null;index:idx_cash_sessions_date_operator"`
	Operator    string              `gorm:"column:operator;not null;index:idx_cash_sessions_date_operator"`
	OpenedAt    time.Time           `gorm:"column:opened_at;not null"`
	ClosedAt    *time.Time          `gorm:"column:closed_at"`
	Cash        decimal.Decimal     `gorm:"column:cash;type:decimal(12,2);not null;default:0"`
	Card        decimal.Decimal     `gorm:"column:card;type:decimal(12,2);not null;default:0"`
	Bank        decimal.Decimal     `gorm:"column:bank;type:decimal(12,2);not null;default:0"`
	Withdrawals decimal.Decimal     `gorm:"column:withdrawals;type:decimal(12,2);not null;default:0"`
	Notes       *string             `gorm:"column:notes"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the id application-side so the model works on both
// Postgres and SQLite.
func (c *CashSession) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Status derives the lifecycle state from closed_at.
func (c *CashSession) Status() enums.SessionStatus {
	if c.ClosedAt == nil {
		return enums.SessionStatusOpen
	}
	return enums.SessionStatusClosed
}

// Net is cash + card − withdrawals on the stored figures. Bank money is
// institution-level and never part of a session's net.
func (c *CashSession) Net() decimal.Decimal {
	return c.Cash.Add(c.Card).Sub(c.Withdrawals)
}
