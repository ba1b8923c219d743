package models

import "time"

// ProjectInvitation is a pending invite. At most one live invitation per
// (project, email): a new invite to the same address supersedes the old
// one, backed by a unique index on the pair.
type ProjectInvitation struct {
	BaseModel
	ProjectID string      `gorm:"type:uuid;not null;uniqueIndex:idx_invitation_project_email"`
	Email     string      `gorm:"not null;uniqueIndex:idx_invitation_project_email"`
	Role      ProjectRole `gorm:"type:varchar(10);not null;default:'MEMBER'"`
	Token     string      `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time   `gorm:"not null"` // 24h from creation

	// Relations
	Project Project `gorm:"foreignKey:ProjectID"`
}

func (i *ProjectInvitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
