package migration

import (
	accountdomain "github.com/deckdrop/deckdrop/internal/account/domain"
	"github.com/deckdrop/deckdrop/internal/config"
	paymentdomain "github.com/deckdrop/deckdrop/internal/payment/domain"
	presentationdomain "github.com/deckdrop/deckdrop/internal/presentation/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Non-postgres deployments (sqlite dev mode) fall back to gorm's
		// schema sync.
		return conn.AutoMigrate(
			&accountdomain.Account{},
			&paymentdomain.EventRecord{},
			&presentationdomain.Presentation{},
		)
	}),
)
