package services

import (
	"fmt"
	"strings"
	"time"

	"nudge_backend/internal/config"
	"nudge_backend/internal/email"
	"nudge_backend/internal/logger"
	"nudge_backend/internal/models"
	"nudge_backend/internal/repositories"
	"nudge_backend/pkg/apperrors"

	"github.com/google/uuid"
)

const invitationTTL = 24 * time.Hour

type InvitationService interface {
	// CreateInvitation invites an email address into a project. A live
	// invitation for the same address blocks a second one; an expired
	// invitation is superseded by the new one.
	CreateInvitation(projectID, inviterID string, req *models.CreateInvitationRequest) (*models.ProjectInvitation, error)
	// AcceptInvitation turns the invitation into a membership. The
	// accepting user's email must match the invited address.
	AcceptInvitation(token, userID string) (*models.ProjectMember, error)
	GetInvitation(token string) (*models.ProjectInvitation, error)
	CancelInvitation(projectID, invitationID, actorID string) error
	ListInvitations(projectID, actorID string) ([]models.ProjectInvitation, error)
	// PurgeExpired removes invitations past their expiry. Run periodically.
	PurgeExpired() (int64, error)
}

type invitationService struct {
	invitationRepo repositories.InvitationRepository
	projectRepo    repositories.ProjectRepository
	userRepo       repositories.UserRepository
	authz          AuthzService
	limiter        LimiterService
	mailer         email.Provider
}

func NewInvitationService(
	invitationRepo repositories.InvitationRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	authz AuthzService,
	limiter LimiterService,
	mailer email.Provider,
) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		authz:          authz,
		limiter:        limiter,
		mailer:         mailer,
	}
}

func (s *invitationService) CreateInvitation(projectID, inviterID string, req *models.CreateInvitationRequest) (*models.ProjectInvitation, error) {
	if !s.authz.CanInviteProjectMembers(projectID, inviterID) {
		return nil, apperrors.ErrForbidden
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	inviteeEmail := strings.ToLower(strings.TrimSpace(req.Email))

	// An address that already belongs to a member gets no invitation.
	if invitee, err := s.userRepo.FindByEmail(inviteeEmail); err == nil {
		if _, err := s.projectRepo.FindMember(projectID, invitee.ID); err == nil {
			return nil, apperrors.ErrAlreadyMember
		}
	}

	check, err := s.limiter.CanAddTeamMember(inviterID, projectID)
	if err != nil {
		return nil, err
	}
	if !check.CanAdd {
		return nil, apperrors.ErrMemberLimitReached.WithDetails(check)
	}

	now := time.Now()
	if existing, err := s.invitationRepo.FindByProjectAndEmail(projectID, inviteeEmail); err == nil {
		if !existing.Expired(now) {
			return nil, apperrors.ErrAlreadyInvited
		}
		// Expired invitations are superseded, not a conflict.
		if err := s.invitationRepo.Delete(existing.ID); err != nil {
			return nil, err
		}
	}

	invitation := &models.ProjectInvitation{
		ProjectID: projectID,
		Email:     inviteeEmail,
		Role:      models.ProjectRole(req.Role),
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(invitationTTL),
	}
	if err := s.invitationRepo.Create(invitation); err != nil {
		// Two concurrent invites for the same address race on the unique
		// index; the loser reports the same conflict as a live invite.
		if apperrors.Is(err, repositories.ErrDuplicateInvitation) {
			return nil, apperrors.ErrAlreadyInvited
		}
		return nil, err
	}

	inviterName := "A teammate"
	if inviter, err := s.userRepo.FindByID(inviterID); err == nil {
		inviterName = inviter.Name
	}
	acceptURL := fmt.Sprintf("%s/invitations/accept?token=%s", config.GetConfig().App.BaseURL, invitation.Token)
	if err := s.mailer.SendInvitation(inviteeEmail, inviterName, project.Name, acceptURL); err != nil {
		logger.WithError(err).Error("failed to send invitation email", "project_id", projectID)
	}

	logger.Info("invitation created", "project_id", projectID, "inviter_id", inviterID)
	return invitation, nil
}

func (s *invitationService) AcceptInvitation(token, userID string) (*models.ProjectMember, error) {
	invitation, err := s.invitationRepo.FindByToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInvitationNotFound) {
			return nil, apperrors.ErrInvitationNotFound
		}
		return nil, err
	}
	if invitation.Expired(time.Now()) {
		return nil, apperrors.ErrInvitationExpired
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	if !strings.EqualFold(user.Email, invitation.Email) {
		return nil, apperrors.ErrForbidden
	}

	member := &models.ProjectMember{
		ProjectID: invitation.ProjectID,
		UserID:    userID,
		Role:      invitation.Role,
	}
	if err := s.invitationRepo.Accept(invitation, member); err != nil {
		if apperrors.Is(err, repositories.ErrMemberExists) {
			return nil, apperrors.ErrAlreadyMember
		}
		return nil, err
	}

	logger.Info("invitation accepted", "project_id", invitation.ProjectID, "user_id", userID)
	return member, nil
}

func (s *invitationService) GetInvitation(token string) (*models.ProjectInvitation, error) {
	invitation, err := s.invitationRepo.FindByToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInvitationNotFound) {
			return nil, apperrors.ErrInvitationNotFound
		}
		return nil, err
	}
	if invitation.Expired(time.Now()) {
		return nil, apperrors.ErrInvitationExpired
	}
	return invitation, nil
}

func (s *invitationService) CancelInvitation(projectID, invitationID, actorID string) error {
	if !s.authz.CanInviteProjectMembers(projectID, actorID) {
		return apperrors.ErrForbidden
	}

	invitations, err := s.invitationRepo.ListByProject(projectID)
	if err != nil {
		return err
	}
	for _, invitation := range invitations {
		if invitation.ID == invitationID {
			return s.invitationRepo.Delete(invitationID)
		}
	}
	return apperrors.ErrInvitationNotFound
}

func (s *invitationService) ListInvitations(projectID, actorID string) ([]models.ProjectInvitation, error) {
	if !s.authz.CanInviteProjectMembers(projectID, actorID) {
		return nil, apperrors.ErrForbidden
	}
	return s.invitationRepo.ListByProject(projectID)
}

func (s *invitationService) PurgeExpired() (int64, error) {
	return s.invitationRepo.DeleteExpired(time.Now())
}
