package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"nudge_backend/internal/logger"
	"nudge_backend/internal/models"
	"nudge_backend/internal/repositories"
	"nudge_backend/internal/storage"
	"nudge_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// FileUpload carries one incoming blob through the upload path.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
	TaskID      *string
}

type FileService interface {
	// UploadFile checks the uploader's storage quota, stores the blob,
	// and records the metadata row.
	UploadFile(ctx context.Context, projectID, userID string, upload *FileUpload) (*models.File, error)
	GetFile(fileID, userID string) (*models.File, error)
	// OpenFile returns the blob stream for download.
	OpenFile(ctx context.Context, fileID, userID string) (*models.File, io.ReadCloser, error)
	ListProjectFiles(projectID, userID string) ([]models.File, error)
	ListTaskFiles(taskID, userID string) ([]models.File, error)
	DeleteFile(ctx context.Context, fileID, userID string) error
}

type fileService struct {
	fileRepo repositories.FileRepository
	taskRepo repositories.TaskRepository
	authz    AuthzService
	limiter  LimiterService
	store    storage.Storage
}

func NewFileService(
	fileRepo repositories.FileRepository,
	taskRepo repositories.TaskRepository,
	authz AuthzService,
	limiter LimiterService,
	store storage.Storage,
) FileService {
	return &fileService{
		fileRepo: fileRepo,
		taskRepo: taskRepo,
		authz:    authz,
		limiter:  limiter,
		store:    store,
	}
}

// storageKey namespaces blobs per project; a uuid prefix keeps
// same-named uploads from colliding.
func storageKey(projectID, fileName string) string {
	return fmt.Sprintf("%s/%s%s", projectID, uuid.NewString(), filepath.Ext(fileName))
}

// keyFromURL recovers the storage key from a stored URL. Keys are
// always the last two path segments: <projectID>/<uuid><ext>.
func keyFromURL(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return url
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}

func (s *fileService) UploadFile(ctx context.Context, projectID, userID string, upload *FileUpload) (*models.File, error) {
	if !s.authz.IsProjectMember(projectID, userID) {
		return nil, apperrors.ErrForbidden
	}

	if upload.TaskID != nil {
		task, err := s.taskRepo.FindByID(*upload.TaskID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrTaskNotFound) {
				return nil, apperrors.ErrTaskNotFound
			}
			return nil, err
		}
		if task.ProjectID != projectID {
			return nil, apperrors.ErrTaskNotFound
		}
	}

	check, err := s.limiter.CanUploadFile(userID, upload.Size)
	if err != nil {
		return nil, err
	}
	if !check.CanUpload {
		return nil, apperrors.ErrStorageLimitReached.WithDetails(check)
	}

	key := storageKey(projectID, upload.Name)
	if err := s.store.Save(ctx, key, upload.Reader, upload.ContentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	file := &models.File{
		Name:       upload.Name,
		URL:        s.store.URL(key),
		Size:       upload.Size,
		Type:       upload.ContentType,
		UploaderID: userID,
		ProjectID:  projectID,
		TaskID:     upload.TaskID,
	}
	if err := s.fileRepo.Create(file); err != nil {
		// Roll the blob back so storage accounting stays truthful.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.WithError(delErr).Warn("failed to remove orphaned blob", "key", key)
		}
		return nil, err
	}

	logger.Info("file uploaded", "file_id", file.ID, "project_id", projectID, "uploader_id", userID, "size", file.Size)
	return file, nil
}

func (s *fileService) GetFile(fileID, userID string) (*models.File, error) {
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFileNotFound) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, err
	}
	if !s.authz.CanViewProjectFiles(file.ProjectID, userID) {
		return nil, apperrors.ErrForbidden
	}
	return file, nil
}

func (s *fileService) OpenFile(ctx context.Context, fileID, userID string) (*models.File, io.ReadCloser, error) {
	file, err := s.GetFile(fileID, userID)
	if err != nil {
		return nil, nil, err
	}

	key := keyFromURL(file.URL)
	reader, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return file, reader, nil
}

func (s *fileService) ListProjectFiles(projectID, userID string) ([]models.File, error) {
	if !s.authz.CanViewProjectFiles(projectID, userID) {
		return nil, apperrors.ErrForbidden
	}
	return s.fileRepo.ListByProject(projectID)
}

func (s *fileService) ListTaskFiles(taskID, userID string) ([]models.File, error) {
	if !s.authz.CanViewTaskFiles(taskID, userID) {
		return nil, apperrors.ErrForbidden
	}
	return s.fileRepo.ListByTask(taskID)
}

func (s *fileService) DeleteFile(ctx context.Context, fileID, userID string) error {
	if !s.authz.CanManageFile(fileID, userID) {
		return apperrors.ErrForbidden
	}

	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFileNotFound) {
			return apperrors.ErrFileNotFound
		}
		return err
	}

	if err := s.fileRepo.Delete(fileID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, keyFromURL(file.URL)); err != nil {
		logger.WithError(err).Warn("failed to delete blob", "file_id", fileID)
	}

	logger.Info("file deleted", "file_id", fileID, "user_id", userID)
	return nil
}
