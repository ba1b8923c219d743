package repositories

import (
	"errors"
	"time"

	"nudge_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrDuplicateInvitation = errors.New("invitation already exists for this project and email")
)

type InvitationRepository interface {
	Create(invitation *models.ProjectInvitation) error
	FindByToken(token string) (*models.ProjectInvitation, error)
	FindByProjectAndEmail(projectID, email string) (*models.ProjectInvitation, error)
	ListByProject(projectID string) ([]models.ProjectInvitation, error)
	Delete(id string) error
	// Accept creates the membership row and deletes the invitation in
	// one transaction.
	Accept(invitation *models.ProjectInvitation, member *models.ProjectMember) error
	DeleteExpired(now time.Time) (int64, error)
}

type InvitationRepositoryImpl struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &InvitationRepositoryImpl{db: db}
}

func (r *InvitationRepositoryImpl) Create(invitation *models.ProjectInvitation) error {
	err := r.db.Create(invitation).Error
	if err != nil && isUniqueViolation(err) {
		// Two concurrent invites to the same address: the unique index on
		// (project_id, email) decides, the loser gets a deterministic error.
		return ErrDuplicateInvitation
	}
	return err
}

func (r *InvitationRepositoryImpl) FindByToken(token string) (*models.ProjectInvitation, error) {
	var invitation models.ProjectInvitation
	err := r.db.Preload("Project").Where("token = ?", token).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationRepositoryImpl) FindByProjectAndEmail(projectID, email string) (*models.ProjectInvitation, error) {
	var invitation models.ProjectInvitation
	err := r.db.Where("project_id = ? AND email = ?", projectID, email).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationRepositoryImpl) ListByProject(projectID string) ([]models.ProjectInvitation, error) {
	var invitations []models.ProjectInvitation
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

func (r *InvitationRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.ProjectInvitation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

func (r *InvitationRepositoryImpl) Accept(invitation *models.ProjectInvitation, member *models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrMemberExists
			}
			return err
		}
		return tx.Where("id = ?", invitation.ID).Delete(&models.ProjectInvitation{}).Error
	})
}

func (r *InvitationRepositoryImpl) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&models.ProjectInvitation{})
	return result.RowsAffected, result.Error
}
