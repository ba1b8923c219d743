package services

import (
	"testing"
	"time"

	"nudge_backend/internal/models"
	"nudge_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvitationEnv(t *testing.T) (*env, InvitationService, *models.User, *models.Project) {
	t.Helper()
	e := newEnv()
	svc := NewInvitationService(e.invitations, e.projects, e.users, e.authz, e.limiter, e.mailer)
	creator := e.store.addUser("creator@example.com")
	project := e.store.addProject(creator.ID)
	return e, svc, creator, project
}

func TestCreateInvitation_RequiresAdmin(t *testing.T) {
	e, svc, _, project := newInvitationEnv(t)
	editor := e.store.addUser("editor@example.com")
	e.store.addMember(project.ID, editor.ID, models.RoleEditor)

	_, err := svc.CreateInvitation(project.ID, editor.ID, &models.CreateInvitationRequest{
		Email: "new@example.com", Role: string(models.RoleMember),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreateInvitation_NormalizesEmailAndSendsMail(t *testing.T) {
	e, svc, creator, project := newInvitationEnv(t)

	invitation, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "  New.Person@Example.COM ", Role: string(models.RoleEditor),
	})
	require.NoError(t, err)
	assert.Equal(t, "new.person@example.com", invitation.Email)
	assert.Equal(t, models.RoleEditor, invitation.Role)
	assert.NotEmpty(t, invitation.Token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), invitation.ExpiresAt, time.Minute)
	assert.Equal(t, []string{"new.person@example.com"}, e.mailer.invitations)
}

func TestCreateInvitation_ExistingMemberConflicts(t *testing.T) {
	e, svc, creator, project := newInvitationEnv(t)
	member := e.store.addUser("member@example.com")
	e.store.addMember(project.ID, member.ID, models.RoleMember)

	_, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "Member@Example.com", Role: string(models.RoleMember),
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
}

func TestCreateInvitation_LiveInviteConflictsExpiredSupersedes(t *testing.T) {
	e, svc, creator, project := newInvitationEnv(t)

	first, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "guest@example.com", Role: string(models.RoleMember),
	})
	require.NoError(t, err)

	// A second invite while the first is live is a conflict.
	_, err = svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "guest@example.com", Role: string(models.RoleMember),
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyInvited)

	// Once the first expires, a new invite supersedes it.
	e.store.mu.Lock()
	e.store.invitations[first.ID].ExpiresAt = time.Now().Add(-time.Hour)
	e.store.mu.Unlock()

	second, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "guest@example.com", Role: string(models.RoleEditor),
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	e.store.mu.Lock()
	_, stillThere := e.store.invitations[first.ID]
	e.store.mu.Unlock()
	assert.False(t, stillThere)
}

func TestCreateInvitation_MemberQuotaEnforced(t *testing.T) {
	e, svc, creator, project := newInvitationEnv(t)

	// STARTER allows 4 team members; the creator is the first.
	for i := 0; i < 3; i++ {
		member := e.store.addUser(uuid.NewString() + "@example.com")
		e.store.addMember(project.ID, member.ID, models.RoleMember)
	}

	_, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "fifth@example.com", Role: string(models.RoleMember),
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeMemberLimitReached, appErr.Code)
}

func TestAcceptInvitation_HappyPath(t *testing.T) {
	e, svc, creator, project := newInvitationEnv(t)
	invitee := e.store.addUser("guest@example.com")

	invitation, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "guest@example.com", Role: string(models.RoleEditor),
	})
	require.NoError(t, err)

	member, err := svc.AcceptInvitation(invitation.Token, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, member.ProjectID)
	assert.Equal(t, models.RoleEditor, member.Role)

	// The invitation is consumed; accepting again fails.
	_, err = svc.AcceptInvitation(invitation.Token, invitee.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvitationNotFound)

	assert.True(t, e.authz.CanCreateTasks(project.ID, invitee.ID))
}

func TestAcceptInvitation_EmailMustMatchCaseInsensitively(t *testing.T) {
	e, svc, creator, project := newInvitationEnv(t)
	rightUser := e.store.addUser("Guest@Example.COM")
	wrongUser := e.store.addUser("someone-else@example.com")

	invitation, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "guest@example.com", Role: string(models.RoleMember),
	})
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(invitation.Token, wrongUser.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.AcceptInvitation(invitation.Token, rightUser.ID)
	assert.NoError(t, err)
}

func TestAcceptInvitation_Expired(t *testing.T) {
	e, svc, creator, project := newInvitationEnv(t)
	invitee := e.store.addUser("guest@example.com")

	invitation, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "guest@example.com", Role: string(models.RoleMember),
	})
	require.NoError(t, err)

	e.store.mu.Lock()
	e.store.invitations[invitation.ID].ExpiresAt = time.Now().Add(-time.Minute)
	e.store.mu.Unlock()

	_, err = svc.AcceptInvitation(invitation.Token, invitee.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvitationExpired)
}

func TestCancelInvitation(t *testing.T) {
	e, svc, creator, project := newInvitationEnv(t)
	otherProject := e.store.addProject(creator.ID)

	invitation, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "guest@example.com", Role: string(models.RoleMember),
	})
	require.NoError(t, err)

	// The invitation id must belong to the addressed project.
	err = svc.CancelInvitation(otherProject.ID, invitation.ID, creator.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvitationNotFound)

	require.NoError(t, svc.CancelInvitation(project.ID, invitation.ID, creator.ID))
	_, err = svc.GetInvitation(invitation.Token)
	assert.ErrorIs(t, err, apperrors.ErrInvitationNotFound)
}

func TestPurgeExpired(t *testing.T) {
	e, svc, creator, project := newInvitationEnv(t)

	live, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "live@example.com", Role: string(models.RoleMember),
	})
	require.NoError(t, err)
	stale, err := svc.CreateInvitation(project.ID, creator.ID, &models.CreateInvitationRequest{
		Email: "stale@example.com", Role: string(models.RoleMember),
	})
	require.NoError(t, err)

	e.store.mu.Lock()
	e.store.invitations[stale.ID].ExpiresAt = time.Now().Add(-time.Hour)
	e.store.mu.Unlock()

	removed, err := svc.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = svc.GetInvitation(live.Token)
	assert.NoError(t, err)
}
