package repositories

import (
	"errors"
	"time"

	"nudge_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskRepository interface {
	// CreateWithFiles persists the task and its initial context files in
	// one transaction.
	CreateWithFiles(task *models.Task, files []models.File) error
	// FindByID loads the task together with its project and that
	// project's member list in one round trip, which is everything a
	// permission check on the task needs.
	FindByID(id string) (*models.Task, error)
	ListByProject(projectID string) ([]models.Task, error)
	Update(task *models.Task) error
	// UpdateStatus writes the status, the completion note, and any
	// deliverable files atomically.
	UpdateStatus(taskID string, status models.TaskStatus, completionNote *string, deliverables []models.File) error
	Delete(id string) error
}

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) CreateWithFiles(task *models.Task, files []models.File) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		for i := range files {
			files[i].TaskID = &task.ID
			files[i].ProjectID = task.ProjectID
			if err := tx.Create(&files[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TaskRepositoryImpl) FindByID(id string) (*models.Task, error) {
	var task models.Task
	err := r.db.Preload("Project").Preload("Project.Members").
		First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) ListByProject(projectID string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) Update(task *models.Task) error {
	result := r.db.Model(task).Updates(map[string]interface{}{
		"title":       task.Title,
		"description": task.Description,
		"priority":    task.Priority,
		"assignee_id": task.AssigneeID,
		"due_date":    task.DueDate,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) UpdateStatus(taskID string, status models.TaskStatus, completionNote *string, deliverables []models.File) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Updates(map[string]interface{}{
				"status":          status,
				"completion_note": completionNote,
				"updated_at":      time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		for i := range deliverables {
			deliverables[i].TaskID = &taskID
			deliverables[i].IsTaskDeliverable = true
			if err := tx.Create(&deliverables[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TaskRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
