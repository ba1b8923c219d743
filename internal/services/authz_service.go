package services

import (
	"nudge_backend/internal/models"
	"nudge_backend/internal/repositories"
)

// AuthzService answers "may user U perform action A on entity E" as a
// plain boolean. Every predicate is fail-closed: a missing entity or a
// store error resolves to false, never to an error. Callers must treat
// false as denial and nothing else; the limiter service, by contrast,
// surfaces NotFound as a real error.
//
// Authority is strictly hierarchical: creator ⊇ ADMIN ⊇ EDITOR ⊇ MEMBER.
// The creator's authority never depends on a membership row existing.
type AuthzService interface {
	IsProjectMember(projectID, userID string) bool
	CanManageProject(projectID, userID string) bool
	CanInviteProjectMembers(projectID, userID string) bool
	CanCreateTasks(projectID, userID string) bool
	CanManageTask(taskID, userID string) bool
	CanUpdateTaskStatus(taskID, userID string) bool
	CanViewTask(taskID, userID string) bool
	CanManageFile(fileID, userID string) bool
	CanViewProjectFiles(projectID, userID string) bool
	CanViewTaskFiles(taskID, userID string) bool
}

type authzService struct {
	projectRepo repositories.ProjectRepository
	taskRepo    repositories.TaskRepository
	fileRepo    repositories.FileRepository
}

func NewAuthzService(
	projectRepo repositories.ProjectRepository,
	taskRepo repositories.TaskRepository,
	fileRepo repositories.FileRepository,
) AuthzService {
	return &authzService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		fileRepo:    fileRepo,
	}
}

// memberRole returns the user's explicit role on the loaded project.
func memberRole(project *models.Project, userID string) (models.ProjectRole, bool) {
	for i := range project.Members {
		if project.Members[i].UserID == userID {
			return project.Members[i].Role, true
		}
	}
	return "", false
}

// hasAuthority reports whether the user is the project's creator or
// holds an explicit role of at least min.
func hasAuthority(project *models.Project, userID string, min models.ProjectRole) bool {
	if project.CreatorID == userID {
		return true
	}
	role, ok := memberRole(project, userID)
	return ok && role.AtLeast(min)
}

func (s *authzService) IsProjectMember(projectID, userID string) bool {
	if userID == "" {
		return false
	}
	project, err := s.projectRepo.FindByIDWithMembers(projectID)
	if err != nil {
		return false
	}
	if project.CreatorID == userID {
		return true
	}
	_, ok := memberRole(project, userID)
	return ok
}

func (s *authzService) CanManageProject(projectID, userID string) bool {
	if userID == "" {
		return false
	}
	project, err := s.projectRepo.FindByIDWithMembers(projectID)
	if err != nil {
		return false
	}
	return hasAuthority(project, userID, models.RoleAdmin)
}

// CanInviteProjectMembers is CanManageProject under another name; the
// invite surface has no separate rule.
func (s *authzService) CanInviteProjectMembers(projectID, userID string) bool {
	return s.CanManageProject(projectID, userID)
}

func (s *authzService) CanCreateTasks(projectID, userID string) bool {
	if userID == "" {
		return false
	}
	project, err := s.projectRepo.FindByIDWithMembers(projectID)
	if err != nil {
		return false
	}
	return hasAuthority(project, userID, models.RoleEditor)
}

// CanManageTask grants the task's creator, the project's creator, and
// any ADMIN or EDITOR of the project. Note that an EDITOR may manage
// every task in the project, not just their own.
func (s *authzService) CanManageTask(taskID, userID string) bool {
	if userID == "" {
		return false
	}
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return false
	}
	if task.CreatorID == userID {
		return true
	}
	return hasAuthority(&task.Project, userID, models.RoleEditor)
}

// CanUpdateTaskStatus relaxes CanManageTask: the assignee may move the
// task through its statuses even without edit rights.
func (s *authzService) CanUpdateTaskStatus(taskID, userID string) bool {
	if userID == "" {
		return false
	}
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return false
	}
	if task.AssigneeID != nil && *task.AssigneeID == userID {
		return true
	}
	if task.CreatorID == userID {
		return true
	}
	return hasAuthority(&task.Project, userID, models.RoleEditor)
}

func (s *authzService) CanViewTask(taskID, userID string) bool {
	if userID == "" {
		return false
	}
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return false
	}
	if task.Project.CreatorID == userID {
		return true
	}
	_, ok := memberRole(&task.Project, userID)
	return ok
}

func (s *authzService) CanManageFile(fileID, userID string) bool {
	if userID == "" {
		return false
	}
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		return false
	}
	if file.UploaderID == userID {
		return true
	}
	return hasAuthority(&file.Project, userID, models.RoleEditor)
}

func (s *authzService) CanViewProjectFiles(projectID, userID string) bool {
	return s.IsProjectMember(projectID, userID)
}

func (s *authzService) CanViewTaskFiles(taskID, userID string) bool {
	return s.CanViewTask(taskID, userID)
}
