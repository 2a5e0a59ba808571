package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for the order ledger.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Order{})
}
