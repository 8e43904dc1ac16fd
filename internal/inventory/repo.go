package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/db/models"
)

// StockEntry is the summed quantity on hand for one product.
type StockEntry struct {
	Product  string `gorm:"column:product" json:"product"`
	Quantity int64  `gorm:"column:quantity" json:"quantity"`
}

// SessionSummary is a closed session that owns inventory, with item totals.
type SessionSummary struct {
	SessionID     uuid.UUID `gorm:"column:session_id" json:"session_id"`
	SessionDate   string    `gorm:"column:session_date" json:"session_date"`
	Operator      string    `gorm:"column:operator" json:"operator"`
	ItemCount     int64     `gorm:"column:item_count" json:"item_count"`
	TotalQuantity int64     `gorm:"column:total_quantity" json:"total_quantity"`
}

// Repository manages persistence for inventory items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	Save(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByResponsible(ctx context.Context, responsible string) (int64, error)
	ListByResponsible(ctx context.Context, responsible string) ([]models.InventoryItem, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.InventoryItem, error)
	AssignToSessionWithTx(tx *gorm.DB, date, responsible string, sessionID uuid.UUID) (int64, error)
	Stock(ctx context.Context) ([]StockEntry, error)
	SessionsWithInventory(ctx context.Context) ([]SessionSummary, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Save(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repository) DeleteByResponsible(ctx context.Context, responsible string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.InventoryItem{}, "responsible = ?", responsible)
	return result.RowsAffected, result.Error
}

func (r *repository) ListByResponsible(ctx context.Context, responsible string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("responsible = ?", responsible).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AssignToSessionWithTx links every unassigned item that matches the session's
// date and responsible. Runs inside the close transaction.
func (r *repository) AssignToSessionWithTx(tx *gorm.DB, date, responsible string, sessionID uuid.UUID) (int64, error) {
	result := tx.Model(&models.InventoryItem{}).
		Where("item_date = ? AND responsible = ? AND session_id IS NULL", date, responsible).
		Update("session_id", sessionID)
	return result.RowsAffected, result.Error
}

func (r *repository) Stock(ctx context.Context) ([]StockEntry, error) {
	var entries []StockEntry
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("product, SUM(quantity) AS quantity").
		Group("product").
		Order("product ASC").
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) SessionsWithInventory(ctx context.Context) ([]SessionSummary, error) {
	var summaries []SessionSummary
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("cash_sessions.id AS session_id, cash_sessions.session_date, cash_sessions.operator, COUNT(inventory_items.id) AS item_count, SUM(inventory_items.quantity) AS total_quantity").
		Joins("JOIN cash_sessions ON cash_sessions.id = inventory_items.session_id").
		Where("cash_sessions.closed_at IS NOT NULL").
		Group("cash_sessions.id, cash_sessions.session_date, cash_sessions.operator").
		Order("cash_sessions.session_date DESC").
		Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}
