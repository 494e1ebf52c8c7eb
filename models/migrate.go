package models

import "gorm.io/gorm"

// Migrate creates or updates every table the portal uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&UserToken{},
		&Service{},
		&Application{},
		&Complaint{},
		&Official{},
		&Department{},
		&EmergencyContact{},
		&Ordinance{},
		&Notification{},
	)
}
