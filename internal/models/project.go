package models

import "time"

type Project struct {
	BaseModel
	Name        string        `gorm:"not null"`
	Description string
	Status      ProjectStatus `gorm:"type:varchar(20);default:'IN_PROGRESS'"`
	DueDate     *time.Time
	CreatorID   string `gorm:"type:uuid;not null;index"`

	// Relations
	Creator User            `gorm:"foreignKey:CreatorID"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID"`
	Files   []File          `gorm:"foreignKey:ProjectID"`
}

// ProjectMember links a user to a project with a role. The creator is
// stored as an ADMIN member on project creation, but permission checks
// never rely on that row existing.
type ProjectMember struct {
	ProjectID string      `gorm:"type:uuid;primaryKey"`
	UserID    string      `gorm:"type:uuid;primaryKey"`
	Role      ProjectRole `gorm:"type:varchar(10);not null;default:'MEMBER'"`
	CreatedAt time.Time   `gorm:"default:now()"`

	// Relations
	User User `gorm:"foreignKey:UserID"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
