package services

import (
	"context"
	"strings"
	"testing"

	"nudge_backend/internal/models"
	"nudge_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskEnv(t *testing.T) (*env, TaskService, *fakeStorage, *models.User, *models.Project) {
	t.Helper()
	e := newEnv()
	store := newFakeStorage()
	svc := NewTaskService(e.tasks, e.projects, e.authz, e.limiter, store)
	creator := e.store.addUser("creator@example.com")
	project := e.store.addProject(creator.ID)
	return e, svc, store, creator, project
}

func strPtr(s string) *string { return &s }

func TestCreateTask_AssigneeMustBeMember(t *testing.T) {
	e, svc, _, creator, project := newTaskEnv(t)
	outsider := e.store.addUser("outsider@example.com")

	_, err := svc.CreateTask(project.ID, creator.ID, &models.CreateTaskRequest{
		Title:      "Design review",
		AssigneeID: &outsider.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrAssigneeNotMember)

	// The project creator is always assignable.
	task, err := svc.CreateTask(project.ID, creator.ID, &models.CreateTaskRequest{
		Title:      "Design review",
		AssigneeID: &creator.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
}

func TestCreateTask_RequiresEditor(t *testing.T) {
	e, svc, _, _, project := newTaskEnv(t)
	member := e.store.addUser("member@example.com")
	e.store.addMember(project.ID, member.ID, models.RoleMember)

	_, err := svc.CreateTask(project.ID, member.ID, &models.CreateTaskRequest{Title: "X"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdateTask_ReassignmentChecksMembership(t *testing.T) {
	e, svc, _, creator, project := newTaskEnv(t)
	member := e.store.addUser("member@example.com")
	e.store.addMember(project.ID, member.ID, models.RoleMember)
	outsider := e.store.addUser("outsider@example.com")
	task := e.store.addTask(project.ID, creator.ID, nil)

	_, err := svc.UpdateTask(task.ID, creator.ID, &models.UpdateTaskRequest{AssigneeID: &outsider.ID})
	assert.ErrorIs(t, err, apperrors.ErrAssigneeNotMember)

	updated, err := svc.UpdateTask(task.ID, creator.ID, &models.UpdateTaskRequest{
		AssigneeID: &member.ID,
		Title:      strPtr("Renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, member.ID, *updated.AssigneeID)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestUpdateTaskStatus_CompletionNoteOnlyOnDone(t *testing.T) {
	e, svc, _, creator, project := newTaskEnv(t)
	task := e.store.addTask(project.ID, creator.ID, nil)

	_, err := svc.UpdateTaskStatus(task.ID, creator.ID, &models.UpdateTaskStatusRequest{
		Status:         string(models.TaskStatusInProgress),
		CompletionNote: strPtr("half done"),
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrCompletionNoteOnly)

	done, err := svc.UpdateTaskStatus(task.ID, creator.ID, &models.UpdateTaskStatusRequest{
		Status:         string(models.TaskStatusDone),
		CompletionNote: strPtr("shipped"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, done.Status)
	require.NotNil(t, done.CompletionNote)
	assert.Equal(t, "shipped", *done.CompletionNote)

	// Reopening the task clears the stale note.
	reopened, err := svc.UpdateTaskStatus(task.ID, creator.ID, &models.UpdateTaskStatusRequest{
		Status: string(models.TaskStatusInProgress),
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletionNote)
}

func TestUpdateTaskStatus_AssigneeMayMoveTask(t *testing.T) {
	e, svc, _, creator, project := newTaskEnv(t)
	assignee := e.store.addUser("assignee@example.com")
	bystander := e.store.addUser("bystander@example.com")
	e.store.addMember(project.ID, assignee.ID, models.RoleMember)
	e.store.addMember(project.ID, bystander.ID, models.RoleMember)
	task := e.store.addTask(project.ID, creator.ID, &assignee.ID)

	_, err := svc.UpdateTaskStatus(task.ID, bystander.ID, &models.UpdateTaskStatusRequest{
		Status: string(models.TaskStatusInProgress),
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	moved, err := svc.UpdateTaskStatus(task.ID, assignee.ID, &models.UpdateTaskStatusRequest{
		Status: string(models.TaskStatusInProgress),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, moved.Status)
}

func TestCompleteTask_StoresDeliverables(t *testing.T) {
	e, svc, store, creator, project := newTaskEnv(t)
	task := e.store.addTask(project.ID, creator.ID, nil)

	uploads := []*FileUpload{
		{Name: "report.pdf", Size: 9, ContentType: "application/pdf", Reader: strings.NewReader("%PDF-1.4 ")},
		{Name: "notes.txt", Size: 5, ContentType: "text/plain", Reader: strings.NewReader("hello")},
	}
	done, err := svc.CompleteTask(context.Background(), task.ID, creator.ID, strPtr("all done"), uploads)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, done.Status)

	files, err := e.files.ListByTask(task.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, file := range files {
		assert.True(t, file.IsTaskDeliverable)
		assert.Equal(t, project.ID, file.ProjectID)
		assert.Equal(t, creator.ID, file.UploaderID)
	}
	assert.Len(t, store.blobs, 2)
}

func TestCompleteTask_StorageFailureLeavesNoOrphans(t *testing.T) {
	e, svc, store, creator, project := newTaskEnv(t)
	task := e.store.addTask(project.ID, creator.ID, nil)
	store.failing = true

	_, err := svc.CompleteTask(context.Background(), task.ID, creator.ID, nil, []*FileUpload{
		{Name: "a.txt", Size: 1, ContentType: "text/plain", Reader: strings.NewReader("a")},
	})
	require.Error(t, err)

	current, findErr := e.tasks.FindByID(task.ID)
	require.NoError(t, findErr)
	assert.Equal(t, models.TaskStatusTodo, current.Status)
	assert.Empty(t, store.blobs)
}

func TestCompleteTask_QuotaRejectsOversizedDeliverables(t *testing.T) {
	e, svc, store, creator, project := newTaskEnv(t)
	task := e.store.addTask(project.ID, creator.ID, nil)

	// STARTER caps storage at 0.1 GB.
	_, err := svc.CompleteTask(context.Background(), task.ID, creator.ID, nil, []*FileUpload{
		{Name: "huge.bin", Size: bytesPerGB, ContentType: "application/zip", Reader: strings.NewReader("x")},
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeStorageLimitReached, appErr.Code)
	assert.Empty(t, store.blobs)
}

func TestDeleteTask_RequiresEditor(t *testing.T) {
	e, svc, _, creator, project := newTaskEnv(t)
	member := e.store.addUser("member@example.com")
	e.store.addMember(project.ID, member.ID, models.RoleMember)
	task := e.store.addTask(project.ID, creator.ID, nil)

	err := svc.DeleteTask(task.ID, member.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.DeleteTask(task.ID, creator.ID))
	_, err = svc.GetTask(task.ID, creator.ID)
	assert.Error(t, err)
}
