package reversals

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
	"github.com/eventocaixa/backend/pkg/enums"
)

func setupReversalsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS reversals (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  category TEXT NOT NULL,
  reason TEXT NOT NULL,
  reversed_at DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedReversal(t *testing.T, db *gorm.DB, sessionID uuid.UUID, amount string, at time.Time) *models.Reversal {
	t.Helper()
	row := &models.Reversal{
		SessionID:  sessionID,
		Amount:     dec(amount),
		Category:   enums.ReversalCategoryCash,
		Reason:     "recount",
		ReversedAt: at,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestRepositoryListBySessionOrdersNewestFirst(t *testing.T) {
	db := setupReversalsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sessionID := uuid.New()
	base := time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)
	seedReversal(t, db, sessionID, "10", base)
	seedReversal(t, db, sessionID, "20", base.Add(time.Hour))
	seedReversal(t, db, uuid.New(), "99", base)

	rows, err := repo.ListBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Amount.Equal(dec("20")))
	assert.True(t, rows[1].Amount.Equal(dec("10")))
}

func TestRepositoryListBySessions(t *testing.T) {
	db := setupReversalsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()
	at := time.Now()
	seedReversal(t, db, first, "10", at)
	seedReversal(t, db, second, "20", at)
	seedReversal(t, db, uuid.New(), "30", at)

	rows, err := repo.ListBySessions(ctx, []uuid.UUID{first, second})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.ListBySessions(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositoryListPage(t *testing.T) {
	db := setupReversalsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)
	for i, amount := range []string{"10", "20", "30"} {
		row := &models.Reversal{
			SessionID:  uuid.New(),
			Amount:     dec(amount),
			Category:   enums.ReversalCategoryCash,
			Reason:     "recount",
			ReversedAt: base,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(row).Error)
	}

	first, next, err := repo.ListPage(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].Amount.Equal(dec("30")))
	assert.True(t, first[1].Amount.Equal(dec("20")))
	require.NotNil(t, next)

	second, next, err := repo.ListPage(ctx, next, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].Amount.Equal(dec("10")))
	assert.Nil(t, next)
}
