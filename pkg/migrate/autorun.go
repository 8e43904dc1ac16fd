package migrate

import (
	"context"
	"fmt"

	"github.com/eventocaixa/backend/pkg/config"
	"github.com/eventocaixa/backend/pkg/db"
	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/logger"
)

// MaybeAutoMigrate brings the schema up automatically where appropriate:
// always for the embedded SQLite driver (there is no migration runner on a
// single-file install), and for Postgres only in dev with the feature flag on.
func MaybeAutoMigrate(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "auto-migrating embedded sqlite schema")
		return AutoMigrateModels(client)
	}

	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrateModels creates/updates all tables via GORM.
func AutoMigrateModels(client *db.Client) error {
	return client.DB().AutoMigrate(
		&models.CashSession{},
		&models.InventoryItem{},
		&models.Supplier{},
		&models.Investor{},
		&models.Settlement{},
		&models.Reversal{},
	)
}
