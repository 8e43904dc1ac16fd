package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/db/models"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS cash_sessions (
  id TEXT PRIMARY KEY,
  session_date TEXT NOT NULL,
  operator TEXT NOT NULL,
  opened_at DATETIME NOT NULL,
  closed_at DATETIME,
  cash NUMERIC NOT NULL DEFAULT 0,
  card NUMERIC NOT NULL DEFAULT 0,
  bank NUMERIC NOT NULL DEFAULT 0,
  withdrawals NUMERIC NOT NULL DEFAULT 0,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  item_date TEXT NOT NULL,
  product TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  responsible TEXT NOT NULL,
  session_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedItem(t *testing.T, db *gorm.DB, date, product string, quantity int, responsible string, sessionID *uuid.UUID) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		ItemDate:    date,
		Product:     product,
		Quantity:    quantity,
		Responsible: responsible,
		SessionID:   sessionID,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryAssignToSession(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sessionID := uuid.New()
	other := uuid.New()
	seedItem(t, db, "2026-03-09", "cerveja", 12, "maria", nil)
	seedItem(t, db, "2026-03-09", "refrigerante", 6, "maria", nil)
	seedItem(t, db, "2026-03-09", "agua", 4, "maria", &other)    // already linked
	seedItem(t, db, "2026-03-10", "cerveja", 10, "maria", nil)   // other date
	seedItem(t, db, "2026-03-09", "cerveja", 8, "joao", nil)     // other responsible

	linked, err := repo.AssignToSessionWithTx(db, "2026-03-09", "maria", sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), linked)

	items, err := repo.ListBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRepositoryStock(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedItem(t, db, "2026-03-09", "cerveja", 12, "maria", nil)
	seedItem(t, db, "2026-03-10", "cerveja", 8, "joao", nil)
	seedItem(t, db, "2026-03-09", "agua", 4, "maria", nil)

	entries, err := repo.Stock(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "agua", entries[0].Product)
	assert.Equal(t, int64(4), entries[0].Quantity)
	assert.Equal(t, "cerveja", entries[1].Product)
	assert.Equal(t, int64(20), entries[1].Quantity)
}

func TestRepositorySessionsWithInventory(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	closedAt := time.Now()
	closed := &models.CashSession{SessionDate: "2026-03-09", Operator: "maria", OpenedAt: time.Now(), ClosedAt: &closedAt}
	require.NoError(t, db.Create(closed).Error)
	open := &models.CashSession{SessionDate: "2026-03-10", Operator: "joao", OpenedAt: time.Now()}
	require.NoError(t, db.Create(open).Error)

	seedItem(t, db, "2026-03-09", "cerveja", 12, "maria", &closed.ID)
	seedItem(t, db, "2026-03-09", "agua", 5, "maria", &closed.ID)
	seedItem(t, db, "2026-03-10", "cerveja", 7, "joao", &open.ID) // open session, excluded

	summaries, err := repo.SessionsWithInventory(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, closed.ID, summaries[0].SessionID)
	assert.Equal(t, "maria", summaries[0].Operator)
	assert.Equal(t, int64(2), summaries[0].ItemCount)
	assert.Equal(t, int64(17), summaries[0].TotalQuantity)
}

func TestRepositoryDeleteByResponsible(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedItem(t, db, "2026-03-09", "cerveja", 12, "maria", nil)
	seedItem(t, db, "2026-03-09", "agua", 4, "maria", nil)
	seedItem(t, db, "2026-03-09", "cerveja", 8, "joao", nil)

	affected, err := repo.DeleteByResponsible(ctx, "maria")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	remaining, err := repo.ListByResponsible(ctx, "joao")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
