package investments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/db/models"
)

// Repository manages persistence for investors.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, investor *models.Investor) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Investor, error)
	Save(ctx context.Context, investor *models.Investor) error
	List(ctx context.Context) ([]models.Investor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an investor repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, investor *models.Investor) error {
	return r.db.WithContext(ctx).Create(investor).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Investor, error) {
	var investor models.Investor
	if err := r.db.WithContext(ctx).First(&investor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &investor, nil
}

func (r *repository) Save(ctx context.Context, investor *models.Investor) error {
	return r.db.WithContext(ctx).Save(investor).Error
}

// List returns investors still owed before settled ones, each group by name.
func (r *repository) List(ctx context.Context) ([]models.Investor, error) {
	var investors []models.Investor
	if err := r.db.WithContext(ctx).
		Order("returned ASC, name ASC").
		Find(&investors).Error; err != nil {
		return nil, err
	}
	return investors, nil
}
