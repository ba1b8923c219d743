package repositories

import (
	"errors"

	"nudge_backend/internal/models"

	"gorm.io/gorm"
)

var ErrFileNotFound = errors.New("file not found")

type FileRepository interface {
	Create(file *models.File) error
	// FindByID loads the file with its project and the project's member
	// list, so a permission check needs no second query.
	FindByID(id string) (*models.File, error)
	ListByProject(projectID string) ([]models.File, error)
	ListByTask(taskID string) ([]models.File, error)
	Delete(id string) error
	// SumSizeByUploader returns the uploader's total stored bytes.
	SumSizeByUploader(userID string) (int64, error)
}

type FileRepositoryImpl struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &FileRepositoryImpl{db: db}
}

func (r *FileRepositoryImpl) Create(file *models.File) error {
	return r.db.Create(file).Error
}

func (r *FileRepositoryImpl) FindByID(id string) (*models.File, error) {
	var file models.File
	err := r.db.Preload("Project").Preload("Project.Members").
		First(&file, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *FileRepositoryImpl) ListByProject(projectID string) ([]models.File, error) {
	var files []models.File
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *FileRepositoryImpl) ListByTask(taskID string) ([]models.File, error) {
	var files []models.File
	err := r.db.Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *FileRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.File{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *FileRepositoryImpl) SumSizeByUploader(userID string) (int64, error) {
	var total int64
	err := r.db.Model(&models.File{}).
		Where("uploader_id = ?", userID).
		Select("COALESCE(SUM(size), 0)").
		Scan(&total).Error
	return total, err
}
