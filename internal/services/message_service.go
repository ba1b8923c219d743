package services

import (
	"nudge_backend/internal/models"
	"nudge_backend/internal/repositories"
	"nudge_backend/pkg/apperrors"
)

const (
	defaultMessagePageSize = 50
	maxMessagePageSize     = 200
)

// MessageService is the project message board. Any member may read and
// post; messages are append-only.
type MessageService interface {
	PostMessage(projectID, userID string, req *models.PostMessageRequest) (*models.ProjectMessage, error)
	ListMessages(projectID, userID string, limit, offset int) ([]models.ProjectMessage, error)
}

type messageService struct {
	messageRepo repositories.MessageRepository
	authz       AuthzService
}

func NewMessageService(messageRepo repositories.MessageRepository, authz AuthzService) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		authz:       authz,
	}
}

func (s *messageService) PostMessage(projectID, userID string, req *models.PostMessageRequest) (*models.ProjectMessage, error) {
	if !s.authz.IsProjectMember(projectID, userID) {
		return nil, apperrors.ErrForbidden
	}

	message := &models.ProjectMessage{
		ProjectID: projectID,
		AuthorID:  userID,
		Body:      req.Body,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *messageService) ListMessages(projectID, userID string, limit, offset int) ([]models.ProjectMessage, error) {
	if !s.authz.IsProjectMember(projectID, userID) {
		return nil, apperrors.ErrForbidden
	}

	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.messageRepo.ListByProject(projectID, limit, offset)
}
