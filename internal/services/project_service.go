package services

import (
	"nudge_backend/internal/logger"
	"nudge_backend/internal/models"
	"nudge_backend/internal/repositories"
	"nudge_backend/pkg/apperrors"
)

type ProjectService interface {
	CreateProject(userID string, req *models.CreateProjectRequest) (*models.Project, error)
	GetProject(projectID, userID string) (*models.Project, error)
	ListProjects(userID string) ([]models.Project, error)
	UpdateProject(projectID, userID string, req *models.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(projectID, userID string) error

	ListMembers(projectID, userID string) ([]models.ProjectMember, error)
	UpdateMemberRole(projectID, actorID, memberID string, role models.ProjectRole) error
	RemoveMember(projectID, actorID, memberID string) error
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	authz       AuthzService
	limiter     LimiterService
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	authz AuthzService,
	limiter LimiterService,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		authz:       authz,
		limiter:     limiter,
	}
}

func (s *projectService) CreateProject(userID string, req *models.CreateProjectRequest) (*models.Project, error) {
	check, err := s.limiter.CanCreateProject(userID)
	if err != nil {
		return nil, err
	}
	if !check.CanCreate {
		return nil, apperrors.ErrProjectLimitReached.WithDetails(check)
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      models.ProjectStatusInProgress,
		DueDate:     req.DueDate,
		CreatorID:   userID,
	}
	if err := s.projectRepo.CreateWithCreator(project); err != nil {
		return nil, err
	}

	logger.Info("project created", "project_id", project.ID, "creator_id", userID)
	return project, nil
}

func (s *projectService) GetProject(projectID, userID string) (*models.Project, error) {
	if !s.authz.IsProjectMember(projectID, userID) {
		return nil, apperrors.ErrForbidden
	}

	project, err := s.projectRepo.FindByIDWithMembers(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (s *projectService) ListProjects(userID string) ([]models.Project, error) {
	return s.projectRepo.FindForUser(userID)
}

func (s *projectService) UpdateProject(projectID, userID string, req *models.UpdateProjectRequest) (*models.Project, error) {
	if !s.authz.CanManageProject(projectID, userID) {
		return nil, apperrors.ErrForbidden
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = models.ProjectStatus(*req.Status)
	}
	if req.DueDate != nil {
		project.DueDate = req.DueDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) DeleteProject(projectID, userID string) error {
	// Deleting a project is reserved for its creator, not every ADMIN.
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return err
	}
	if project.CreatorID != userID {
		return apperrors.ErrForbidden
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return err
	}
	logger.Info("project deleted", "project_id", projectID, "user_id", userID)
	return nil
}

func (s *projectService) ListMembers(projectID, userID string) ([]models.ProjectMember, error) {
	if !s.authz.IsProjectMember(projectID, userID) {
		return nil, apperrors.ErrForbidden
	}
	return s.projectRepo.ListMembers(projectID)
}

func (s *projectService) UpdateMemberRole(projectID, actorID, memberID string, role models.ProjectRole) error {
	if !s.authz.CanManageProject(projectID, actorID) {
		return apperrors.ErrForbidden
	}
	if !role.Valid() {
		return apperrors.ValidationError("invalid role")
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return err
	}
	// The creator's authority does not come from a membership row, so a
	// role change on it would be meaningless at best.
	if memberID == project.CreatorID {
		return apperrors.ErrForbidden
	}

	if err := s.projectRepo.UpdateMemberRole(projectID, memberID, role); err != nil {
		if apperrors.Is(err, repositories.ErrMemberNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return err
	}
	return nil
}

func (s *projectService) RemoveMember(projectID, actorID, memberID string) error {
	// Members may leave on their own; removing someone else takes
	// project-management authority.
	if actorID != memberID && !s.authz.CanManageProject(projectID, actorID) {
		return apperrors.ErrForbidden
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return err
	}
	if memberID == project.CreatorID {
		return apperrors.ErrForbidden
	}

	if err := s.projectRepo.RemoveMember(projectID, memberID); err != nil {
		if apperrors.Is(err, repositories.ErrMemberNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return err
	}
	logger.Info("project member removed", "project_id", projectID, "member_id", memberID, "actor_id", actorID)
	return nil
}
