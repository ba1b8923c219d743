package handlers

import (
	"io"
	"net/http"

	"nudge_backend/internal/billing"
	"nudge_backend/internal/config"
	"nudge_backend/internal/logger"
	"nudge_backend/internal/middleware"
	"nudge_backend/internal/models"
	"nudge_backend/internal/services"
	"nudge_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	*BaseHandler
	billingService services.BillingService
}

func NewBillingHandler(base *BaseHandler, billingService services.BillingService) *BillingHandler {
	return &BillingHandler{
		BaseHandler:    base,
		billingService: billingService,
	}
}

func (h *BillingHandler) RegisterRoutes(r *gin.RouterGroup) {
	billingGroup := r.Group("/billing")
	{
		// External gateway callback, authenticated by signature.
		billingGroup.POST("/webhook", h.HandleWebhook)
	}

	protected := billingGroup.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/checkout", h.CreateCheckout)
		protected.POST("/portal", h.CreatePortalSession)
		protected.POST("/cancel", h.CancelSubscription)
	}
}

func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	url, err := h.billingService.CreateCheckout(userID, models.SubscriptionPlan(req.Plan))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	url, err := h.billingService.CreatePortalSession(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.billingService.CancelSubscription(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription will be canceled"})
}

// HandleWebhook verifies the gateway signature, normalizes the event,
// and applies it. The gateway retries on anything but a 2xx, so
// transient failures return 500 and malformed input returns 400.
func (h *BillingHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, billing.MaxWebhookBody()))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read webhook body"))
		return
	}

	event, err := billing.ParseWebhook(body, c.GetHeader("Stripe-Signature"), config.GetConfig().Stripe.WebhookSecret)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "webhook signature verification failed", err)
		apperrors.HandleError(c, apperrors.ErrWebhookSignature)
		return
	}
	if event == nil {
		// Event type we do not track.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.billingService.HandleWebhookEvent(event); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
