package handlers

import (
	"net/http"

	"nudge_backend/internal/middleware"
	"nudge_backend/internal/models"
	"nudge_backend/internal/services"
	"nudge_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	*BaseHandler
	taskService services.TaskService
	fileService services.FileService
}

func NewTaskHandler(base *BaseHandler, taskService services.TaskService, fileService services.FileService) *TaskHandler {
	return &TaskHandler{
		BaseHandler: base,
		taskService: taskService,
		fileService: fileService,
	}
}

func (h *TaskHandler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects/:projectId/tasks")
	projects.Use(middleware.AuthMiddleware())
	{
		projects.POST("", h.CreateTask)
		projects.GET("", h.ListTasks)
	}

	tasks := r.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware())
	{
		tasks.GET("/:taskId", h.GetTask)
		tasks.PATCH("/:taskId", h.UpdateTask)
		tasks.PATCH("/:taskId/status", h.UpdateTaskStatus)
		tasks.POST("/:taskId/complete", h.CompleteTask)
		tasks.GET("/:taskId/files", h.ListTaskFiles)
		tasks.DELETE("/:taskId", h.DeleteTask)
	}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(c.Param("projectId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(c.Param("projectId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Param("taskId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(c.Param("taskId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTaskStatus(c.Param("taskId"), userID, &req, nil)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// CompleteTask accepts a multipart form: an optional completionNote
// field and zero or more deliverable files under "deliverables".
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return
	}

	var completionNote *string
	if values := form.Value["completionNote"]; len(values) > 0 && values[0] != "" {
		completionNote = &values[0]
	}

	var uploads []*services.FileUpload
	var closers []func() error
	defer func() {
		for _, close := range closers {
			_ = close()
		}
	}()

	for _, fileHeader := range form.File["deliverables"] {
		opened, err := fileHeader.Open()
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read uploaded file: "+err.Error()))
			return
		}
		closers = append(closers, opened.Close)
		uploads = append(uploads, &services.FileUpload{
			Name:        fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Reader:      opened,
		})
	}

	task, err := h.taskService.CompleteTask(c.Request.Context(), c.Param("taskId"), userID, completionNote, uploads)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) ListTaskFiles(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	files, err := h.fileService.ListTaskFiles(c.Param("taskId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"total": len(files),
	})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Param("taskId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
