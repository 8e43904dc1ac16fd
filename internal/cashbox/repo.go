package cashbox

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/db/models"
)

// Repository manages persistence for cash sessions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, session *models.CashSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CashSession, error)
	FindOpen(ctx context.Context, date, operator string) (*models.CashSession, error)
	Save(ctx context.Context, session *models.CashSession) error
	ListOpen(ctx context.Context) ([]models.CashSession, error)
	ListByOperator(ctx context.Context, operator string) ([]models.CashSession, error)
	ListClosed(ctx context.Context) ([]models.CashSession, error)
	ListClosedInRange(ctx context.Context, from, to string) ([]models.CashSession, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a cash session repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, session *models.CashSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CashSession, error) {
	var session models.CashSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *repository) FindOpen(ctx context.Context, date, operator string) (*models.CashSession, error) {
	var session models.CashSession
	if err := r.db.WithContext(ctx).
		Where("session_date = ? AND operator = ? AND closed_at IS NULL", date, operator).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *repository) Save(ctx context.Context, session *models.CashSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *repository) ListOpen(ctx context.Context) ([]models.CashSession, error) {
	var sessions []models.CashSession
	if err := r.db.WithContext(ctx).
		Where("closed_at IS NULL").
		Order("opened_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) ListByOperator(ctx context.Context, operator string) ([]models.CashSession, error) {
	var sessions []models.CashSession
	if err := r.db.WithContext(ctx).
		Where("operator = ?", operator).
		Order("opened_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) ListClosed(ctx context.Context) ([]models.CashSession, error) {
	var sessions []models.CashSession
	if err := r.db.WithContext(ctx).
		Where("closed_at IS NOT NULL").
		Order("opened_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) ListClosedInRange(ctx context.Context, from, to string) ([]models.CashSession, error) {
	var sessions []models.CashSession
	query := r.db.WithContext(ctx).Where("closed_at IS NOT NULL")
	if from != "" {
		query = query.Where("session_date >= ?", from)
	}
	if to != "" {
		query = query.Where("session_date <= ?", to)
	}
	if err := query.Order("opened_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
