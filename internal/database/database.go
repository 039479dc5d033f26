package database

import (
	"fmt"

	"github.com/solsticehq/solstice-api/internal/config"
	"github.com/solsticehq/solstice-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a MySQL connection and optionally runs auto-migration.
// The handle is returned to the caller and injected everywhere; nothing in
// this package holds global state, so tests can run against an isolated DB.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.DSN,
		DefaultStringSize: 191,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// Map driver duplicate-entry errors to gorm.ErrDuplicatedKey; the
		// newsletter state machine relies on this to arbitrate concurrent
		// first-time subscribes (see newsletter.Service.Subscribe).
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return db, nil
}

// Migrate runs GORM auto-migration for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.SubscriberModel{},
		&models.PostModel{},
		&models.InquiryModel{},
	)
}
