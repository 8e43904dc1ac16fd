package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryItem is stock registered for a shift. Items are linked to the
// responsible's session either when the item is added (open session exists)
// or when the session closes.
type InventoryItem struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ItemDate    string     `gorm:"column:item_date;not null;index"`
	Product     string     `gorm:"column:product;not null"`
	Quantity    int        `gorm:"column:quantity;not null;default:0"`
	Responsible string     `gorm:"column:responsible;not null;index"`
	SessionID   *uuid.UUID `gorm:"column:session_id;type:uuid;index"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *InventoryItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
