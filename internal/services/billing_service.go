package services

import (
	"time"

	"nudge_backend/internal/billing"
	"nudge_backend/internal/logger"
	"nudge_backend/internal/models"
	"nudge_backend/internal/repositories"
	"nudge_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// BillingService owns the Subscription lifecycle. Writes to
// Subscription.status happen in exactly two places: starting a trial row
// lazily, and applying gateway webhook events. Everything else is a read.
type BillingService interface {
	// CreateCheckout starts a checkout for the target plan and returns
	// the hosted URL. An existing active paid subscription on a
	// different plan is canceled first: one active paid subscription at
	// a time.
	CreateCheckout(userID string, plan models.SubscriptionPlan) (string, error)
	// CreatePortalSession returns a billing-portal URL for the user.
	CreatePortalSession(userID string) (string, error)
	// CancelSubscription cancels the user's paid subscription at the gateway.
	CancelSubscription(userID string) error
	// HandleWebhookEvent applies one normalized gateway event to the
	// Subscription row it addresses. Idempotent per event id.
	HandleWebhookEvent(event *billing.SubscriptionEvent) error
}

type billingService struct {
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	gateway          billing.Gateway
}

func NewBillingService(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	gateway billing.Gateway,
) BillingService {
	return &billingService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		gateway:          gateway,
	}
}

// ensureSubscription returns the user's subscription row, creating a
// STARTER/TRIAL row with a gateway customer on first billing contact.
func (s *billingService) ensureSubscription(userID string) (*models.Subscription, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	subscription, err := s.subscriptionRepo.FindByUserID(userID)
	if err == nil {
		if subscription.StripeCustomerID == "" {
			customerID, gwErr := s.gateway.EnsureCustomer("", user.ID, user.Email)
			if gwErr != nil {
				return nil, apperrors.ErrBillingGateway.WithError(gwErr)
			}
			subscription.StripeCustomerID = customerID
			if err := s.subscriptionRepo.Update(subscription); err != nil {
				return nil, err
			}
		}
		return subscription, nil
	}
	if !apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, err
	}

	customerID, err := s.gateway.EnsureCustomer("", user.ID, user.Email)
	if err != nil {
		return nil, apperrors.ErrBillingGateway.WithError(err)
	}

	subscription = &models.Subscription{
		UserID:           userID,
		Plan:             models.PlanStarter,
		Status:           models.SubscriptionStatusTrial,
		StripeCustomerID: customerID,
	}
	if err := s.subscriptionRepo.Create(subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}

func (s *billingService) CreateCheckout(userID string, plan models.SubscriptionPlan) (string, error) {
	subscription, err := s.ensureSubscription(userID)
	if err != nil {
		return "", err
	}

	// One active paid subscription at a time: upgrading cancels the
	// current one before checkout starts.
	if subscription.Status == models.SubscriptionStatusActive &&
		subscription.StripeSubID != "" &&
		subscription.Plan != plan {
		if err := s.gateway.CancelSubscription(subscription.StripeSubID); err != nil {
			return "", apperrors.ErrBillingGateway.WithError(err)
		}
	}

	url, err := s.gateway.CreateCheckoutSession(subscription.StripeCustomerID, plan)
	if err != nil {
		return "", apperrors.ErrBillingGateway.WithError(err)
	}
	return url, nil
}

func (s *billingService) CreatePortalSession(userID string) (string, error) {
	subscription, err := s.ensureSubscription(userID)
	if err != nil {
		return "", err
	}

	url, err := s.gateway.CreatePortalSession(subscription.StripeCustomerID)
	if err != nil {
		return "", apperrors.ErrBillingGateway.WithError(err)
	}
	return url, nil
}

func (s *billingService) CancelSubscription(userID string) error {
	subscription, err := s.subscriptionRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return apperrors.ErrSubscriptionNotFound
		}
		return err
	}
	if subscription.StripeSubID == "" {
		return apperrors.ErrSubscriptionNotFound
	}

	if err := s.gateway.CancelSubscription(subscription.StripeSubID); err != nil {
		return apperrors.ErrBillingGateway.WithError(err)
	}
	// The row itself is updated when the gateway's deletion event
	// arrives; the webhook is the single writer of subscription state.
	return nil
}

// statusFromGateway maps a gateway status string onto the local machine:
// TRIAL → ACTIVE → {CANCELED, PAST_DUE, UNPAID} → ACTIVE.
func statusFromGateway(status string) models.SubscriptionStatus {
	switch status {
	case "trialing":
		return models.SubscriptionStatusTrial
	case "active":
		return models.SubscriptionStatusActive
	case "canceled":
		return models.SubscriptionStatusCanceled
	case "past_due":
		return models.SubscriptionStatusPastDue
	case "unpaid":
		return models.SubscriptionStatusUnpaid
	default:
		return models.SubscriptionStatusUnpaid
	}
}

func (s *billingService) HandleWebhookEvent(event *billing.SubscriptionEvent) error {
	journal := &models.BillingEvent{
		StripeEventID: event.EventID,
		Type:          event.Type,
		Payload:       datatypes.JSON(event.Raw),
	}
	if err := s.subscriptionRepo.CreateEvent(journal); err != nil {
		if !apperrors.Is(err, repositories.ErrEventAlreadySeen) {
			return err
		}
		seen, lookupErr := s.subscriptionRepo.FindEvent(event.EventID)
		if lookupErr != nil {
			return lookupErr
		}
		if seen.ProcessedAt != nil {
			// Gateway retry of an event already applied.
			return nil
		}
		// Journaled but never marked processed: the first delivery
		// failed after the journal write, so this retry must apply it.
	}

	subscription, err := s.subscriptionRepo.FindByStripeCustomerID(event.CustomerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			logger.Warn("webhook event for unknown customer", "customer_id", event.CustomerID, "type", event.Type)
			return apperrors.ErrSubscriptionNotFound
		}
		return err
	}

	periodStart := event.CurrentPeriodStart
	periodEnd := event.CurrentPeriodEnd

	switch event.Type {
	case billing.EventSubscriptionCreated, billing.EventSubscriptionUpdated:
		if plan, ok := s.gateway.PlanForPrice(event.PriceID); ok {
			subscription.Plan = plan
		}
		subscription.Status = statusFromGateway(event.Status)
		subscription.StripeSubID = event.GatewaySubID
		subscription.StripePriceID = event.PriceID
		subscription.CurrentPeriodStart = &periodStart
		subscription.CurrentPeriodEnd = &periodEnd
		subscription.CancelAtPeriodEnd = event.CancelAtPeriodEnd

	case billing.EventSubscriptionDeleted:
		// Paid subscription is gone: back to the free tier.
		subscription.Plan = models.PlanStarter
		subscription.Status = models.SubscriptionStatusCanceled
		subscription.StripeSubID = ""
		subscription.StripePriceID = ""
		subscription.CurrentPeriodStart = nil
		subscription.CurrentPeriodEnd = nil
		subscription.CancelAtPeriodEnd = false

	default:
		return nil
	}

	if err := s.subscriptionRepo.Update(subscription); err != nil {
		return err
	}

	now := time.Now()
	if err := s.subscriptionRepo.MarkEventProcessed(event.EventID, now); err != nil {
		logger.Warn("failed to mark billing event processed", "event_id", event.EventID, "error", err)
	}
	return nil
}
