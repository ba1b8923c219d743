package database

import (
	"nudge_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date for every model the
// application persists.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.DeleteAccountToken{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectInvitation{},
		&models.Task{},
		&models.File{},
		&models.ProjectMessage{},
		&models.Subscription{},
		&models.BillingEvent{},
	)
}
