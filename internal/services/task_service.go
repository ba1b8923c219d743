package services

import (
	"context"

	"nudge_backend/internal/logger"
	"nudge_backend/internal/models"
	"nudge_backend/internal/repositories"
	"nudge_backend/internal/storage"
	"nudge_backend/pkg/apperrors"
)

type TaskService interface {
	CreateTask(projectID, userID string, req *models.CreateTaskRequest) (*models.Task, error)
	GetTask(taskID, userID string) (*models.Task, error)
	ListTasks(projectID, userID string) ([]models.Task, error)
	UpdateTask(taskID, userID string, req *models.UpdateTaskRequest) (*models.Task, error)
	// UpdateTaskStatus is the relaxed path: the assignee may move a task
	// through the board without full task-management authority.
	// Deliverables, when present, commit in the same transaction as the
	// status change and are only accepted on the DONE transition.
	UpdateTaskStatus(taskID, userID string, req *models.UpdateTaskStatusRequest, deliverables []models.File) (*models.Task, error)
	// CompleteTask marks the task DONE with an optional completion note
	// and deliverable uploads. The blobs are stored first; the status,
	// the note, and the deliverable rows then commit together.
	CompleteTask(ctx context.Context, taskID, userID string, completionNote *string, uploads []*FileUpload) (*models.Task, error)
	DeleteTask(taskID, userID string) error
}

type taskService struct {
	taskRepo    repositories.TaskRepository
	projectRepo repositories.ProjectRepository
	authz       AuthzService
	limiter     LimiterService
	store       storage.Storage
}

func NewTaskService(
	taskRepo repositories.TaskRepository,
	projectRepo repositories.ProjectRepository,
	authz AuthzService,
	limiter LimiterService,
	store storage.Storage,
) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		authz:       authz,
		limiter:     limiter,
		store:       store,
	}
}

// assertAssigneeIsMember rejects an assignee without a current
// membership row in the project. The creator counts via membership here
// only if their ADMIN row still exists, which it does in practice.
func (s *taskService) assertAssigneeIsMember(projectID string, assigneeID *string) error {
	if assigneeID == nil {
		return nil
	}
	project, err := s.projectRepo.FindByIDWithMembers(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return err
	}
	if project.CreatorID == *assigneeID {
		return nil
	}
	for _, member := range project.Members {
		if member.UserID == *assigneeID {
			return nil
		}
	}
	return apperrors.ErrAssigneeNotMember
}

func (s *taskService) CreateTask(projectID, userID string, req *models.CreateTaskRequest) (*models.Task, error) {
	if !s.authz.CanCreateTasks(projectID, userID) {
		return nil, apperrors.ErrForbidden
	}
	if err := s.assertAssigneeIsMember(projectID, req.AssigneeID); err != nil {
		return nil, err
	}

	priority := models.TaskPriorityMedium
	if req.Priority != "" {
		priority = models.TaskPriority(req.Priority)
	}

	task := &models.Task{
		ProjectID:   projectID,
		CreatorID:   userID,
		AssigneeID:  req.AssigneeID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusTodo,
		Priority:    priority,
		DueDate:     req.DueDate,
	}
	if err := s.taskRepo.CreateWithFiles(task, nil); err != nil {
		return nil, err
	}

	logger.Info("task created", "task_id", task.ID, "project_id", projectID, "creator_id", userID)
	return task, nil
}

func (s *taskService) GetTask(taskID, userID string) (*models.Task, error) {
	if !s.authz.CanViewTask(taskID, userID) {
		return nil, apperrors.ErrForbidden
	}
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(projectID, userID string) ([]models.Task, error) {
	if !s.authz.IsProjectMember(projectID, userID) {
		return nil, apperrors.ErrForbidden
	}
	return s.taskRepo.ListByProject(projectID)
}

func (s *taskService) UpdateTask(taskID, userID string, req *models.UpdateTaskRequest) (*models.Task, error) {
	if !s.authz.CanManageTask(taskID, userID) {
		return nil, apperrors.ErrForbidden
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	if req.AssigneeID != nil {
		if err := s.assertAssigneeIsMember(task.ProjectID, req.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = req.AssigneeID
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Priority != nil {
		task.Priority = models.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateTaskStatus(taskID, userID string, req *models.UpdateTaskStatusRequest, deliverables []models.File) (*models.Task, error) {
	if !s.authz.CanUpdateTaskStatus(taskID, userID) {
		return nil, apperrors.ErrForbidden
	}

	status := models.TaskStatus(req.Status)
	// A completion note and deliverables ride along only with the DONE
	// transition.
	if (req.CompletionNote != nil || len(deliverables) > 0) && status != models.TaskStatusDone {
		return nil, apperrors.ErrCompletionNoteOnly
	}

	completionNote := req.CompletionNote
	if status != models.TaskStatusDone {
		// Leaving DONE clears the stale note.
		completionNote = nil
	}

	existing, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	if len(deliverables) > 0 {
		var total int64
		for i := range deliverables {
			deliverables[i].ProjectID = existing.ProjectID
			deliverables[i].TaskID = &existing.ID
			deliverables[i].UploaderID = userID
			deliverables[i].IsTaskDeliverable = true
			total += deliverables[i].Size
		}
		check, err := s.limiter.CanUploadFile(userID, total)
		if err != nil {
			return nil, err
		}
		if !check.CanUpload {
			return nil, apperrors.ErrStorageLimitReached.WithDetails(check)
		}
	}

	if err := s.taskRepo.UpdateStatus(taskID, status, completionNote, deliverables); err != nil {
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	logger.Info("task status updated", "task_id", taskID, "status", status, "user_id", userID)
	return task, nil
}

func (s *taskService) CompleteTask(ctx context.Context, taskID, userID string, completionNote *string, uploads []*FileUpload) (*models.Task, error) {
	if len(uploads) == 0 {
		return s.UpdateTaskStatus(taskID, userID, &models.UpdateTaskStatusRequest{
			Status:         string(models.TaskStatusDone),
			CompletionNote: completionNote,
		}, nil)
	}

	if !s.authz.CanUpdateTaskStatus(taskID, userID) {
		return nil, apperrors.ErrForbidden
	}
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	var total int64
	for _, upload := range uploads {
		total += upload.Size
	}
	check, err := s.limiter.CanUploadFile(userID, total)
	if err != nil {
		return nil, err
	}
	if !check.CanUpload {
		return nil, apperrors.ErrStorageLimitReached.WithDetails(check)
	}

	var keys []string
	var deliverables []models.File
	for _, upload := range uploads {
		key := storageKey(task.ProjectID, upload.Name)
		if err := s.store.Save(ctx, key, upload.Reader, upload.ContentType); err != nil {
			s.discardBlobs(ctx, keys)
			return nil, apperrors.InternalError(err)
		}
		keys = append(keys, key)
		deliverables = append(deliverables, models.File{
			Name:              upload.Name,
			URL:               s.store.URL(key),
			Size:              upload.Size,
			Type:              upload.ContentType,
			UploaderID:        userID,
			ProjectID:         task.ProjectID,
			TaskID:            &task.ID,
			IsTaskDeliverable: true,
		})
	}

	if err := s.taskRepo.UpdateStatus(taskID, models.TaskStatusDone, completionNote, deliverables); err != nil {
		s.discardBlobs(ctx, keys)
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	updated, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	logger.Info("task completed with deliverables", "task_id", taskID, "user_id", userID, "deliverables", len(deliverables))
	return updated, nil
}

// discardBlobs removes blobs stored ahead of a write that then failed.
func (s *taskService) discardBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			logger.WithError(err).Warn("failed to remove orphaned blob", "key", key)
		}
	}
}

func (s *taskService) DeleteTask(taskID, userID string) error {
	if !s.authz.CanManageTask(taskID, userID) {
		return apperrors.ErrForbidden
	}
	if err := s.taskRepo.Delete(taskID); err != nil {
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return err
	}
	return nil
}
