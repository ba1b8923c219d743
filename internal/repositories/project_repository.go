package repositories

import (
	"errors"
	"time"

	"nudge_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrMemberNotFound  = errors.New("project member not found")
	ErrMemberExists    = errors.New("project member already exists")
)

type ProjectRepository interface {
	// CreateWithCreator persists the project together with the creator's
	// ADMIN membership row. Both commit or neither does.
	CreateWithCreator(project *models.Project) error
	FindByID(id string) (*models.Project, error)
	// FindByIDWithMembers loads the project and its member list in one
	// round trip; this is the read the permission checks are built on.
	FindByIDWithMembers(id string) (*models.Project, error)
	FindForUser(userID string) ([]models.Project, error)
	CountForUser(userID string) (int64, error)
	Update(project *models.Project) error
	Delete(id string) error

	// Member operations
	AddMember(member *models.ProjectMember) error
	FindMember(projectID, userID string) (*models.ProjectMember, error)
	ListMembers(projectID string) ([]models.ProjectMember, error)
	UpdateMemberRole(projectID, userID string, role models.ProjectRole) error
	RemoveMember(projectID, userID string) error
	// CountDistinctMembersForCreator counts distinct users holding a
	// membership in any project owned by the given creator. Used for
	// the team-member quota, which is scoped to the project owner.
	CountDistinctMembersForCreator(creatorID string) (int64, error)
}

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) CreateWithCreator(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.CreatorID,
			Role:      models.RoleAdmin,
		}
		return tx.Create(member).Error
	})
}

func (r *ProjectRepositoryImpl) FindByID(id string) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindByIDWithMembers(id string) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Members").First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindForUser(userID string) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Distinct("projects.*").
		Joins("LEFT JOIN project_members pm ON pm.project_id = projects.id").
		Where("projects.creator_id = ? OR pm.user_id = ?", userID, userID).
		Order("projects.created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) CountForUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Distinct("projects.id").
		Joins("LEFT JOIN project_members pm ON pm.project_id = projects.id").
		Where("projects.creator_id = ? OR pm.user_id = ?", userID, userID).
		Count(&count).Error
	return count, err
}

func (r *ProjectRepositoryImpl) Update(project *models.Project) error {
	result := r.db.Model(project).Updates(map[string]interface{}{
		"name":        project.Name,
		"description": project.Description,
		"status":      project.Status,
		"due_date":    project.DueDate,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Member operations

func (r *ProjectRepositoryImpl) AddMember(member *models.ProjectMember) error {
	err := r.db.Create(member).Error
	if err != nil && isUniqueViolation(err) {
		return ErrMemberExists
	}
	return err
}

func (r *ProjectRepositoryImpl) FindMember(projectID, userID string) (*models.ProjectMember, error) {
	var member models.ProjectMember
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *ProjectRepositoryImpl) ListMembers(projectID string) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *ProjectRepositoryImpl) UpdateMemberRole(projectID, userID string, role models.ProjectRole) error {
	result := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) RemoveMember(projectID, userID string) error {
	result := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) CountDistinctMembersForCreator(creatorID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Distinct("project_members.user_id").
		Joins("JOIN projects p ON p.id = project_members.project_id").
		Where("p.creator_id = ?", creatorID).
		Count(&count).Error
	return count, err
}
