package handlers

import (
	"nudge_backend/internal/services"
	"nudge_backend/internal/validator"
)

// AppHandlers holds every HTTP handler in the application.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	ProjectHandler    *ProjectHandler
	InvitationHandler *InvitationHandler
	TaskHandler       *TaskHandler
	FileHandler       *FileHandler
	BillingHandler    *BillingHandler
}

func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:       NewAuthHandler(base, sc.AuthService),
		UserHandler:       NewUserHandler(base, sc.UserService, sc.LimiterService),
		ProjectHandler:    NewProjectHandler(base, sc.ProjectService, sc.MessageService),
		InvitationHandler: NewInvitationHandler(base, sc.InvitationService),
		TaskHandler:       NewTaskHandler(base, sc.TaskService, sc.FileService),
		FileHandler:       NewFileHandler(base, sc.FileService),
		BillingHandler:    NewBillingHandler(base, sc.BillingService),
	}
}
