package models

// File is a stored attachment. TaskID nil means a project-level file.
// When TaskID is set, ProjectID must match the task's project.
type File struct {
	BaseModel
	Name              string  `gorm:"not null"`
	URL               string  `gorm:"not null"`
	Size              int64   `gorm:"not null"`
	Type              string  `gorm:"not null"`
	UploaderID        string  `gorm:"type:uuid;not null;index"`
	ProjectID         string  `gorm:"type:uuid;not null;index"`
	TaskID            *string `gorm:"type:uuid;index"`
	IsTaskDeliverable bool    `gorm:"default:false"` // true only for files attached via task completion

	// Relations
	Uploader User    `gorm:"foreignKey:UploaderID"`
	Project  Project `gorm:"foreignKey:ProjectID"`
	Task     *Task   `gorm:"foreignKey:TaskID"`
}
