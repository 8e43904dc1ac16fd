package settlements

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/enums"
)

func setupSettlementsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS settlements (
  id TEXT PRIMARY KEY,
  direction TEXT NOT NULL,
  obligation_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  source TEXT NOT NULL,
  settled_on TEXT NOT NULL,
  note TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRepositoryListByObligationFiltersDirection(t *testing.T) {
	db := setupSettlementsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	obligationID := uuid.New()
	rows := []*models.Settlement{
		{Direction: enums.SettlementDirectionPayable, ObligationID: obligationID, Amount: decimal.NewFromInt(100), Source: enums.PaymentSourceCash, SettledOn: "2026-03-08"},
		{Direction: enums.SettlementDirectionPayable, ObligationID: obligationID, Amount: decimal.NewFromInt(50), Source: enums.PaymentSourceCard, SettledOn: "2026-03-09"},
		// Same obligation id under the opposite direction must not leak in.
		{Direction: enums.SettlementDirectionReceivable, ObligationID: obligationID, Amount: decimal.NewFromInt(30), Source: enums.PaymentSourceTransfer, SettledOn: "2026-03-09"},
		{Direction: enums.SettlementDirectionPayable, ObligationID: uuid.New(), Amount: decimal.NewFromInt(70), Source: enums.PaymentSourceCash, SettledOn: "2026-03-09"},
	}
	for _, row := range rows {
		require.NoError(t, repo.Create(ctx, row))
	}

	payments, err := repo.ListByObligation(ctx, enums.SettlementDirectionPayable, obligationID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	returns, err := repo.ListByObligation(ctx, enums.SettlementDirectionReceivable, obligationID)
	require.NoError(t, err)
	assert.Len(t, returns, 1)
	assert.True(t, returns[0].Amount.Equal(decimal.NewFromInt(30)))
}
