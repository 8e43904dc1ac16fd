// Package settlements persists the append-only money-movement log shared by
// supplier payments and investor devolutions.
package settlements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/enums"
)

// Repository manages persistence for settlements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, settlement *models.Settlement) error
	ListByObligation(ctx context.Context, direction enums.SettlementDirection, obligationID uuid.UUID) ([]models.Settlement, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a settlement repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

func (r *repository) ListByObligation(ctx context.Context, direction enums.SettlementDirection, obligationID uuid.UUID) ([]models.Settlement, error) {
	var rows []models.Settlement
	if err := r.db.WithContext(ctx).
		Where("direction = ? AND obligation_id = ?", direction, obligationID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
