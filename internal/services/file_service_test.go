package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"nudge_backend/internal/models"
	"nudge_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileEnv(t *testing.T) (*env, FileService, *fakeStorage, *models.User, *models.Project) {
	t.Helper()
	e := newEnv()
	store := newFakeStorage()
	svc := NewFileService(e.files, e.tasks, e.authz, e.limiter, store)
	creator := e.store.addUser("creator@example.com")
	project := e.store.addProject(creator.ID)
	return e, svc, store, creator, project
}

func TestUploadFile_RoundTrip(t *testing.T) {
	_, svc, store, creator, project := newFileEnv(t)

	file, err := svc.UploadFile(context.Background(), project.ID, creator.ID, &FileUpload{
		Name: "spec.pdf", Size: 9, ContentType: "application/pdf",
		Reader: strings.NewReader("%PDF-1.4 "),
	})
	require.NoError(t, err)
	assert.Contains(t, file.URL, project.ID)
	assert.False(t, file.IsTaskDeliverable)
	assert.Len(t, store.blobs, 1)

	got, reader, err := svc.OpenFile(context.Background(), file.ID, creator.ID)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, file.ID, got.ID)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 ", string(data))
}

func TestUploadFile_NonMemberForbidden(t *testing.T) {
	e, svc, store, _, project := newFileEnv(t)
	outsider := e.store.addUser("outsider@example.com")

	_, err := svc.UploadFile(context.Background(), project.ID, outsider.ID, &FileUpload{
		Name: "a.txt", Size: 1, ContentType: "text/plain", Reader: strings.NewReader("a"),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, store.blobs)
}

func TestUploadFile_TaskMustBelongToProject(t *testing.T) {
	e, svc, _, creator, project := newFileEnv(t)
	otherProject := e.store.addProject(creator.ID)
	foreignTask := e.store.addTask(otherProject.ID, creator.ID, nil)

	_, err := svc.UploadFile(context.Background(), project.ID, creator.ID, &FileUpload{
		Name: "a.txt", Size: 1, ContentType: "text/plain",
		Reader: strings.NewReader("a"), TaskID: &foreignTask.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestUploadFile_QuotaEnforced(t *testing.T) {
	_, svc, store, creator, project := newFileEnv(t)

	_, err := svc.UploadFile(context.Background(), project.ID, creator.ID, &FileUpload{
		Name: "huge.bin", Size: bytesPerGB, ContentType: "application/zip",
		Reader: strings.NewReader("x"),
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeStorageLimitReached, appErr.Code)
	assert.Empty(t, store.blobs)
}

func TestGetFile_VisibilityFollowsProjectMembership(t *testing.T) {
	e, svc, _, creator, project := newFileEnv(t)
	member := e.store.addUser("member@example.com")
	e.store.addMember(project.ID, member.ID, models.RoleMember)
	outsider := e.store.addUser("outsider@example.com")

	file, err := svc.UploadFile(context.Background(), project.ID, creator.ID, &FileUpload{
		Name: "a.txt", Size: 1, ContentType: "text/plain", Reader: strings.NewReader("a"),
	})
	require.NoError(t, err)

	_, err = svc.GetFile(file.ID, member.ID)
	assert.NoError(t, err)
	_, err = svc.GetFile(file.ID, outsider.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestDeleteFile_UploaderOrEditorOnly(t *testing.T) {
	e, svc, store, _, project := newFileEnv(t)
	uploader := e.store.addUser("uploader@example.com")
	bystander := e.store.addUser("bystander@example.com")
	e.store.addMember(project.ID, uploader.ID, models.RoleMember)
	e.store.addMember(project.ID, bystander.ID, models.RoleMember)

	file, err := svc.UploadFile(context.Background(), project.ID, uploader.ID, &FileUpload{
		Name: "a.txt", Size: 1, ContentType: "text/plain", Reader: strings.NewReader("a"),
	})
	require.NoError(t, err)

	err = svc.DeleteFile(context.Background(), file.ID, bystander.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.DeleteFile(context.Background(), file.ID, uploader.ID))
	assert.Empty(t, store.blobs)
	_, err = svc.GetFile(file.ID, uploader.ID)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}

func TestKeyFromURL(t *testing.T) {
	assert.Equal(t, "proj-1/blob.pdf", keyFromURL("/api/v1/files/proj-1/blob.pdf"))
	assert.Equal(t, "proj-1/blob.pdf", keyFromURL("proj-1/blob.pdf"))
	assert.Equal(t, "blob.pdf", keyFromURL("blob.pdf"))
}

func TestStorageKey(t *testing.T) {
	key := storageKey("proj-1", "report.pdf")
	assert.True(t, strings.HasPrefix(key, "proj-1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, storageKey("proj-1", "report.pdf"))
}
