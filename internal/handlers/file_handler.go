package handlers

import (
	"fmt"
	"net/http"

	"nudge_backend/internal/config"
	"nudge_backend/internal/middleware"
	"nudge_backend/internal/services"
	"nudge_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	*BaseHandler
	fileService services.FileService
}

func NewFileHandler(base *BaseHandler, fileService services.FileService) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		fileService: fileService,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects/:projectId/files")
	projects.Use(middleware.AuthMiddleware())
	{
		projects.POST("", h.UploadFile)
		projects.GET("", h.ListProjectFiles)
	}

	files := r.Group("/files")
	files.Use(middleware.AuthMiddleware())
	{
		files.GET("/:fileId", h.GetFile)
		files.GET("/:fileId/download", h.DownloadFile)
		files.DELETE("/:fileId", h.DeleteFile)
	}
}

func allowedContentType(contentType string) bool {
	for _, allowed := range config.GetConfig().Upload.AllowedTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func (h *FileHandler) UploadFile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file in form field 'file'"))
		return
	}

	maxSize := config.GetConfig().Upload.MaxSize
	if fileHeader.Size > maxSize {
		apperrors.HandleError(c, apperrors.NewBadRequestError(fmt.Sprintf("File exceeds the %d byte upload limit", maxSize)))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedContentType(contentType) {
		apperrors.HandleError(c, apperrors.NewBadRequestError("File type not allowed: "+contentType))
		return
	}

	opened, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read uploaded file: "+err.Error()))
		return
	}
	defer opened.Close()

	var taskID *string
	if v := c.PostForm("taskId"); v != "" {
		taskID = &v
	}

	file, err := h.fileService.UploadFile(c.Request.Context(), c.Param("projectId"), userID, &services.FileUpload{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: contentType,
		Reader:      opened,
		TaskID:      taskID,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, file)
}

func (h *FileHandler) ListProjectFiles(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	files, err := h.fileService.ListProjectFiles(c.Param("projectId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"total": len(files),
	})
}

func (h *FileHandler) GetFile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, err := h.fileService.GetFile(c.Param("fileId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}

func (h *FileHandler) DownloadFile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, reader, err := h.fileService.OpenFile(c.Request.Context(), c.Param("fileId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.DataFromReader(http.StatusOK, file.Size, file.Type, reader, nil)
}

func (h *FileHandler) DeleteFile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(), c.Param("fileId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}
