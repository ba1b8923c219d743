package handlers

import (
	"net/http"

	"nudge_backend/internal/middleware"
	"nudge_backend/internal/models"
	"nudge_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	*BaseHandler
	invitationService services.InvitationService
}

func NewInvitationHandler(base *BaseHandler, invitationService services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		BaseHandler:       base,
		invitationService: invitationService,
	}
}

func (h *InvitationHandler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects/:projectId/invitations")
	projects.Use(middleware.AuthMiddleware())
	{
		projects.POST("", h.CreateInvitation)
		projects.GET("", h.ListInvitations)
		projects.DELETE("/:invitationId", h.CancelInvitation)
	}

	invitations := r.Group("/invitations")
	{
		invitations.GET("/:token", h.GetInvitation)
		invitations.POST("/:token/accept", middleware.AuthMiddleware(), h.AcceptInvitation)
	}
}

func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.CreateInvitationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	invitation, err := h.invitationService.CreateInvitation(c.Param("projectId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitation)
}

func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	invitations, err := h.invitationService.ListInvitations(c.Param("projectId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": invitations,
		"total":       len(invitations),
	})
}

func (h *InvitationHandler) CancelInvitation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.invitationService.CancelInvitation(c.Param("projectId"), c.Param("invitationId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation canceled"})
}

// GetInvitation is the unauthenticated preview an invitee sees before
// signing in: the project name and the invited role, nothing more.
func (h *InvitationHandler) GetInvitation(c *gin.Context) {
	invitation, err := h.invitationService.GetInvitation(c.Param("token"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projectName": invitation.Project.Name,
		"email":       invitation.Email,
		"role":        invitation.Role,
		"expiresAt":   invitation.ExpiresAt,
	})
}

func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	member, err := h.invitationService.AcceptInvitation(c.Param("token"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projectId": member.ProjectID,
		"role":      member.Role,
	})
}
