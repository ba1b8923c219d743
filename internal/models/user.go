package models

import "time"

type User struct {
	BaseModel
	Email        string  `gorm:"uniqueIndex;not null"`
	Name         string  `gorm:"not null"`
	PasswordHash *string `json:"-"` // nil means OAuth-only account
	Image        string

	// Relations
	Projects     []Project       `gorm:"foreignKey:CreatorID"`
	Memberships  []ProjectMember `gorm:"foreignKey:UserID"`
	Subscription *Subscription   `gorm:"foreignKey:UserID"`
}

// PasswordResetToken is a short-lived single-use credential keyed by
// email. At most one live token per email: creation deletes priors.
type PasswordResetToken struct {
	BaseModel
	Email     string    `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"` // 1h from creation
}

// DeleteAccountToken confirms account deletion over email. Same
// one-live-token-per-email rule as password reset, shorter expiry.
type DeleteAccountToken struct {
	BaseModel
	Email     string    `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"` // 10min from creation
}
