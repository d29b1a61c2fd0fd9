package migrate

import (
	"context"
	"fmt"

	"github.com/teclegacy/marketplace-backend/pkg/config"
	"github.com/teclegacy/marketplace-backend/pkg/db"
	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	"github.com/teclegacy/marketplace-backend/pkg/logger"
)

// MaybeRunDev applies schema changes on boot when the auto-migrate flag is on.
// SQLite mode uses GORM AutoMigrate (goose migrations are Postgres SQL);
// Postgres runs the goose chain. Production should run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.FeatureFlags.UseSQLite {
		if err := client.DB().WithContext(ctx).AutoMigrate(
			&models.Category{},
			&models.Product{},
			&models.Cart{},
			&models.CartItem{},
			&models.Order{},
			&models.OrderItem{},
			&models.ChatbotQuery{},
		); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}
		if logg != nil {
			logg.Info(ctx, "sqlite schema auto-migrated")
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("getting sql db handle: %w", err)
	}
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return err
	}
	if logg != nil {
		logg.Info(ctx, "goose migrations applied")
	}
	return nil
}
