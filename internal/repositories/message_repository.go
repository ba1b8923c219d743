package repositories

import (
	"nudge_backend/internal/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *models.ProjectMessage) error
	ListByProject(projectID string, limit, offset int) ([]models.ProjectMessage, error)
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(message *models.ProjectMessage) error {
	return r.db.Create(message).Error
}

func (r *MessageRepositoryImpl) ListByProject(projectID string, limit, offset int) ([]models.ProjectMessage, error) {
	var messages []models.ProjectMessage
	err := r.db.Preload("Author").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}
