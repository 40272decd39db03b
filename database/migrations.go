package database

import (
	"gorm.io/gorm"

	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

// Migrate applies the schema. Intended for development; production schema
// changes go through reviewed migrations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Site{},
		&models.SpinRecord{},
		&models.RedemptionCode{},
		&models.DailyLimitEntry{},
		&models.ScoreSubmission{},
	)
}
