package models

import "time"

type Task struct {
	BaseModel
	ProjectID      string `gorm:"type:uuid;not null;index"`
	CreatorID      string `gorm:"type:uuid;not null"`
	AssigneeID     *string `gorm:"type:uuid;index"` // must reference a current project member
	Title          string  `gorm:"not null"`
	Description    *string
	Status         TaskStatus   `gorm:"type:varchar(20);default:'TODO'"`
	Priority       TaskPriority `gorm:"type:varchar(10);default:'MEDIUM'"`
	DueDate        *time.Time
	CompletionNote *string // settable only when Status is DONE

	// Relations
	Project  Project `gorm:"foreignKey:ProjectID"`
	Creator  User    `gorm:"foreignKey:CreatorID"`
	Assignee *User   `gorm:"foreignKey:AssigneeID"`
	Files    []File  `gorm:"foreignKey:TaskID"`
}
