package services

import (
	"testing"

	"nudge_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAuthz_CreatorHasFullAuthorityWithoutMembershipRow(t *testing.T) {
	e := newEnv()
	creator := e.store.addUser("creator@example.com")
	project := e.store.addProject(creator.ID)

	// Remove the creator's ADMIN row entirely; authority must survive.
	e.store.members[project.ID] = nil

	assert.True(t, e.authz.IsProjectMember(project.ID, creator.ID))
	assert.True(t, e.authz.CanManageProject(project.ID, creator.ID))
	assert.True(t, e.authz.CanInviteProjectMembers(project.ID, creator.ID))
	assert.True(t, e.authz.CanCreateTasks(project.ID, creator.ID))
	assert.True(t, e.authz.CanViewProjectFiles(project.ID, creator.ID))
}

func TestAuthz_RoleThresholds(t *testing.T) {
	e := newEnv()
	creator := e.store.addUser("creator@example.com")
	admin := e.store.addUser("admin@example.com")
	editor := e.store.addUser("editor@example.com")
	member := e.store.addUser("member@example.com")
	outsider := e.store.addUser("outsider@example.com")
	project := e.store.addProject(creator.ID)
	e.store.addMember(project.ID, admin.ID, models.RoleAdmin)
	e.store.addMember(project.ID, editor.ID, models.RoleEditor)
	e.store.addMember(project.ID, member.ID, models.RoleMember)

	// Project management requires ADMIN.
	assert.True(t, e.authz.CanManageProject(project.ID, admin.ID))
	assert.False(t, e.authz.CanManageProject(project.ID, editor.ID))
	assert.False(t, e.authz.CanManageProject(project.ID, member.ID))

	// Inviting follows project management: ADMIN only.
	assert.True(t, e.authz.CanInviteProjectMembers(project.ID, admin.ID))
	assert.False(t, e.authz.CanInviteProjectMembers(project.ID, editor.ID))

	// Task creation requires EDITOR or above.
	assert.True(t, e.authz.CanCreateTasks(project.ID, admin.ID))
	assert.True(t, e.authz.CanCreateTasks(project.ID, editor.ID))
	assert.False(t, e.authz.CanCreateTasks(project.ID, member.ID))

	// Any member may view files; an outsider may not do anything.
	assert.True(t, e.authz.CanViewProjectFiles(project.ID, member.ID))
	assert.False(t, e.authz.IsProjectMember(project.ID, outsider.ID))
	assert.False(t, e.authz.CanViewProjectFiles(project.ID, outsider.ID))
}

func TestAuthz_FailClosedOnMissingEntities(t *testing.T) {
	e := newEnv()
	user := e.store.addUser("user@example.com")

	assert.False(t, e.authz.IsProjectMember("missing-project", user.ID))
	assert.False(t, e.authz.CanManageProject("missing-project", user.ID))
	assert.False(t, e.authz.CanManageTask("missing-task", user.ID))
	assert.False(t, e.authz.CanUpdateTaskStatus("missing-task", user.ID))
	assert.False(t, e.authz.CanManageFile("missing-file", user.ID))
}

func TestAuthz_TaskStatusUpdateByAssignee(t *testing.T) {
	e := newEnv()
	creator := e.store.addUser("creator@example.com")
	assignee := e.store.addUser("assignee@example.com")
	member := e.store.addUser("member@example.com")
	project := e.store.addProject(creator.ID)
	e.store.addMember(project.ID, assignee.ID, models.RoleMember)
	e.store.addMember(project.ID, member.ID, models.RoleMember)
	task := e.store.addTask(project.ID, creator.ID, &assignee.ID)

	// The assignee may move the task even as a plain MEMBER; a fellow
	// MEMBER who is not the assignee may not.
	assert.True(t, e.authz.CanUpdateTaskStatus(task.ID, assignee.ID))
	assert.False(t, e.authz.CanUpdateTaskStatus(task.ID, member.ID))

	// Editing the task body stays an EDITOR-and-up action.
	assert.False(t, e.authz.CanManageTask(task.ID, member.ID))
	assert.True(t, e.authz.CanManageTask(task.ID, creator.ID))
}

func TestAuthz_FileManagement(t *testing.T) {
	e := newEnv()
	creator := e.store.addUser("creator@example.com")
	uploader := e.store.addUser("uploader@example.com")
	member := e.store.addUser("member@example.com")
	project := e.store.addProject(creator.ID)
	e.store.addMember(project.ID, uploader.ID, models.RoleMember)
	e.store.addMember(project.ID, member.ID, models.RoleMember)

	file := &models.File{
		Name:       "report.pdf",
		URL:        "/files/x",
		Size:       100,
		Type:       "application/pdf",
		UploaderID: uploader.ID,
		ProjectID:  project.ID,
	}
	assert.NoError(t, e.files.Create(file))

	// Uploader manages their own file, project admins manage any file,
	// an unrelated member manages neither.
	assert.True(t, e.authz.CanManageFile(file.ID, uploader.ID))
	assert.True(t, e.authz.CanManageFile(file.ID, creator.ID))
	assert.False(t, e.authz.CanManageFile(file.ID, member.ID))
}

func TestProjectRole_AtLeast(t *testing.T) {
	assert.True(t, models.RoleAdmin.AtLeast(models.RoleMember))
	assert.True(t, models.RoleAdmin.AtLeast(models.RoleAdmin))
	assert.True(t, models.RoleEditor.AtLeast(models.RoleMember))
	assert.False(t, models.RoleMember.AtLeast(models.RoleEditor))
	assert.False(t, models.RoleEditor.AtLeast(models.RoleAdmin))
}
