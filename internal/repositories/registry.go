package repositories

import "gorm.io/gorm"

// RepositoryContainer holds every repository, constructed once against
// the shared database handle.
type RepositoryContainer struct {
	Users         UserRepository
	Projects      ProjectRepository
	Tasks         TaskRepository
	Files         FileRepository
	Invitations   InvitationRepository
	Subscriptions SubscriptionRepository
	Messages      MessageRepository
}

func NewRepositoryContainer(db *gorm.DB) *RepositoryContainer {
	return &RepositoryContainer{
		Users:         NewUserRepository(db),
		Projects:      NewProjectRepository(db),
		Tasks:         NewTaskRepository(db),
		Files:         NewFileRepository(db),
		Invitations:   NewInvitationRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Messages:      NewMessageRepository(db),
	}
}
