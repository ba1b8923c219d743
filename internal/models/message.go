package models

// ProjectMessage is one entry in a project's team message feed.
type ProjectMessage struct {
	BaseModel
	ProjectID string `gorm:"type:uuid;not null;index"`
	AuthorID  string `gorm:"type:uuid;not null"`
	Body      string `gorm:"not null"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID"`
}
