package reversals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/pagination"
)

// Repository manages persistence for the reversal log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, reversal *models.Reversal) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Reversal, error)
	ListPage(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Reversal, *pagination.Cursor, error)
	ListBySessions(ctx context.Context, sessionIDs []uuid.UUID) ([]models.Reversal, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reversal repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, reversal *models.Reversal) error {
	return r.db.WithContext(ctx).Create(reversal).Error
}

func (r *repository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Reversal, error) {
	var rows []models.Reversal
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("reversed_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPage walks the event-wide log newest first with a keyset cursor.
func (r *repository) ListPage(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Reversal, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).Model(&models.Reversal{})
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Reversal
	if err := query.Order("created_at DESC, id DESC").Limit(buffered).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		rows = rows[:normalized]
		// Cursor points at the last delivered row; the strict < predicate
		// resumes from the row after it.
		last := rows[normalized-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}

func (r *repository) ListBySessions(ctx context.Context, sessionIDs []uuid.UUID) ([]models.Reversal, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	var rows []models.Reversal
	if err := r.db.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
