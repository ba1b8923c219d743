package services

import (
	"testing"

	"nudge_backend/internal/models"
	"nudge_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectEnv(t *testing.T) (*env, ProjectService, *models.User) {
	t.Helper()
	e := newEnv()
	svc := NewProjectService(e.projects, e.authz, e.limiter)
	creator := e.store.addUser("creator@example.com")
	return e, svc, creator
}

func TestCreateProject_SeedsCreatorAsAdmin(t *testing.T) {
	_, svc, creator := newProjectEnv(t)

	project, err := svc.CreateProject(creator.ID, &models.CreateProjectRequest{Name: "Launch"})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusInProgress, project.Status)

	members, err := svc.ListMembers(project.ID, creator.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, creator.ID, members[0].UserID)
	assert.Equal(t, models.RoleAdmin, members[0].Role)
}

func TestCreateProject_QuotaEnforced(t *testing.T) {
	e, svc, creator := newProjectEnv(t)
	for i := 0; i < 5; i++ {
		e.store.addProject(creator.ID)
	}

	_, err := svc.CreateProject(creator.ID, &models.CreateProjectRequest{Name: "One too many"})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeProjectLimitReached, appErr.Code)

	check, ok := appErr.Details.(*ProjectLimitCheck)
	require.True(t, ok)
	assert.Equal(t, int64(5), check.CurrentCount)
	assert.Equal(t, 5, check.Limit)
}

func TestGetProject_NonMemberIsForbidden(t *testing.T) {
	e, svc, creator := newProjectEnv(t)
	project := e.store.addProject(creator.ID)
	outsider := e.store.addUser("outsider@example.com")

	_, err := svc.GetProject(project.ID, outsider.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	got, err := svc.GetProject(project.ID, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
	assert.Len(t, got.Members, 1)
}

func TestDeleteProject_CreatorOnly(t *testing.T) {
	e, svc, creator := newProjectEnv(t)
	project := e.store.addProject(creator.ID)
	admin := e.store.addUser("admin@example.com")
	e.store.addMember(project.ID, admin.ID, models.RoleAdmin)

	// Even a full ADMIN may not delete the project.
	err := svc.DeleteProject(project.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.DeleteProject(project.ID, creator.ID))
	err = svc.DeleteProject(project.ID, creator.ID)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestUpdateMemberRole(t *testing.T) {
	e, svc, creator := newProjectEnv(t)
	project := e.store.addProject(creator.ID)
	member := e.store.addUser("member@example.com")
	e.store.addMember(project.ID, member.ID, models.RoleMember)

	require.NoError(t, svc.UpdateMemberRole(project.ID, creator.ID, member.ID, models.RoleEditor))
	assert.True(t, e.authz.CanCreateTasks(project.ID, member.ID))

	// Unknown role values are rejected before touching the store.
	err := svc.UpdateMemberRole(project.ID, creator.ID, member.ID, models.ProjectRole("OWNER"))
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	// The creator's row is untouchable.
	err = svc.UpdateMemberRole(project.ID, creator.ID, creator.ID, models.RoleMember)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdateMemberRole_DemotionRevokesAuthority(t *testing.T) {
	e, svc, creator := newProjectEnv(t)
	project := e.store.addProject(creator.ID)
	editor := e.store.addUser("editor@example.com")
	e.store.addMember(project.ID, editor.ID, models.RoleEditor)
	task := e.store.addTask(project.ID, creator.ID, nil)

	require.True(t, e.authz.CanManageTask(task.ID, editor.ID))

	// The very next check after a demotion sees the reduced role.
	require.NoError(t, svc.UpdateMemberRole(project.ID, creator.ID, editor.ID, models.RoleMember))
	assert.False(t, e.authz.CanManageTask(task.ID, editor.ID))
	assert.False(t, e.authz.CanCreateTasks(project.ID, editor.ID))
}

func TestRemoveMember(t *testing.T) {
	e, svc, creator := newProjectEnv(t)
	project := e.store.addProject(creator.ID)
	editor := e.store.addUser("editor@example.com")
	member := e.store.addUser("member@example.com")
	e.store.addMember(project.ID, editor.ID, models.RoleEditor)
	e.store.addMember(project.ID, member.ID, models.RoleMember)

	// An EDITOR may not remove others, but anyone may leave.
	err := svc.RemoveMember(project.ID, editor.ID, member.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	require.NoError(t, svc.RemoveMember(project.ID, editor.ID, editor.ID))

	// The creator may remove members but can never be removed.
	require.NoError(t, svc.RemoveMember(project.ID, creator.ID, member.ID))
	err = svc.RemoveMember(project.ID, creator.ID, creator.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
