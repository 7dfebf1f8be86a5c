// Package database holds schema management helpers.
package database

import (
	"gorm.io/gorm"

	"subtrackr_backend/internal/logger"
	"subtrackr_backend/internal/models"
)

// Migrate applies the schema for every model. uuid_generate_v4 needs
// the uuid-ossp extension, created here so a fresh database works out
// of the box.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.SubscriptionTag{},
		&models.Payment{},
		&models.SubscriptionCost{},
		&models.Attachment{},
		&models.Report{},
		&models.Preference{},
	)
	if err != nil {
		return err
	}

	logger.Info("database schema migrated")
	return nil
}
