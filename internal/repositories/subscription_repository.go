package repositories

import (
	"errors"
	"time"

	"nudge_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrEventAlreadySeen     = errors.New("billing event already recorded")
	ErrEventNotFound        = errors.New("billing event not found")
)

type SubscriptionRepository interface {
	FindByUserID(userID string) (*models.Subscription, error)
	FindByStripeCustomerID(customerID string) (*models.Subscription, error)
	FindByStripeSubID(subID string) (*models.Subscription, error)
	Create(subscription *models.Subscription) error
	Update(subscription *models.Subscription) error

	// BillingEvent journal. CreateEvent returns ErrEventAlreadySeen for a
	// replayed event id; FindEvent tells whether the prior delivery was
	// actually applied (ProcessedAt set) or must be retried.
	CreateEvent(event *models.BillingEvent) error
	FindEvent(stripeEventID string) (*models.BillingEvent, error)
	MarkEventProcessed(stripeEventID string, at time.Time) error
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

func (r *SubscriptionRepositoryImpl) FindByUserID(userID string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.Where("user_id = ?", userID).First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) FindByStripeCustomerID(customerID string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.Where("stripe_customer_id = ?", customerID).First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) FindByStripeSubID(subID string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.Where("stripe_sub_id = ?", subID).First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) Create(subscription *models.Subscription) error {
	return r.db.Create(subscription).Error
}

func (r *SubscriptionRepositoryImpl) Update(subscription *models.Subscription) error {
	result := r.db.Model(subscription).Updates(map[string]interface{}{
		"plan":                 subscription.Plan,
		"status":               subscription.Status,
		"stripe_customer_id":   subscription.StripeCustomerID,
		"stripe_sub_id":        subscription.StripeSubID,
		"stripe_price_id":      subscription.StripePriceID,
		"current_period_start": subscription.CurrentPeriodStart,
		"current_period_end":   subscription.CurrentPeriodEnd,
		"cancel_at_period_end": subscription.CancelAtPeriodEnd,
		"updated_at":           time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) CreateEvent(event *models.BillingEvent) error {
	err := r.db.Create(event).Error
	if err != nil && isUniqueViolation(err) {
		return ErrEventAlreadySeen
	}
	return err
}

func (r *SubscriptionRepositoryImpl) FindEvent(stripeEventID string) (*models.BillingEvent, error) {
	var event models.BillingEvent
	err := r.db.Where("stripe_event_id = ?", stripeEventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *SubscriptionRepositoryImpl) MarkEventProcessed(stripeEventID string, at time.Time) error {
	return r.db.Model(&models.BillingEvent{}).
		Where("stripe_event_id = ?", stripeEventID).
		Update("processed_at", at).Error
}
