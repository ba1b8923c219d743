package services

import (
	"nudge_backend/internal/billing"
	"nudge_backend/internal/email"
	"nudge_backend/internal/repositories"
	"nudge_backend/internal/storage"
)

// ServiceContainer holds every service the handlers depend on.
type ServiceContainer struct {
	AuthService       AuthService
	UserService       UserService
	ProjectService    ProjectService
	InvitationService InvitationService
	TaskService       TaskService
	FileService       FileService
	MessageService    MessageService
	BillingService    BillingService
	AuthzService      AuthzService
	LimiterService    LimiterService
}

// NewServiceContainer wires the full service graph from the repository
// set and the external providers. Everything is constructed once at
// process start.
func NewServiceContainer(
	repos *repositories.RepositoryContainer,
	mailer email.Provider,
	store storage.Storage,
	gateway billing.Gateway,
) *ServiceContainer {
	authz := NewAuthzService(repos.Projects, repos.Tasks, repos.Files)
	limiter := NewLimiterService(repos.Users, repos.Projects, repos.Files, repos.Subscriptions)

	return &ServiceContainer{
		AuthService:       NewAuthService(repos.Users, mailer),
		UserService:       NewUserService(repos.Users),
		ProjectService:    NewProjectService(repos.Projects, authz, limiter),
		InvitationService: NewInvitationService(repos.Invitations, repos.Projects, repos.Users, authz, limiter, mailer),
		TaskService:       NewTaskService(repos.Tasks, repos.Projects, authz, limiter, store),
		FileService:       NewFileService(repos.Files, repos.Tasks, authz, limiter, store),
		MessageService:    NewMessageService(repos.Messages, authz),
		BillingService:    NewBillingService(repos.Subscriptions, repos.Users, gateway),
		AuthzService:      authz,
		LimiterService:    limiter,
	}
}
