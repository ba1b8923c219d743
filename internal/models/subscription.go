package models

import (
	"time"

	"gorm.io/datatypes"
)

// Subscription is a user's billing record. At most one per user; a user
// with no row is on the STARTER plan. Status transitions are driven
// exclusively by payment-gateway webhook events.
type Subscription struct {
	BaseModel
	UserID             string             `gorm:"type:uuid;uniqueIndex;not null"`
	Plan               SubscriptionPlan   `gorm:"type:varchar(20);default:'STARTER'"`
	Status             SubscriptionStatus `gorm:"type:varchar(20);default:'TRIAL'"`
	StripeCustomerID   string             `gorm:"index"`
	StripeSubID        string             `gorm:"index"`
	StripePriceID      string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool `gorm:"default:false"`
}

// BillingEvent journals every webhook event received from the payment
// gateway, raw payload included, before it is applied to a Subscription.
type BillingEvent struct {
	BaseModel
	StripeEventID string         `gorm:"uniqueIndex;not null"`
	Type          string         `gorm:"not null;index"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
	ProcessedAt   *time.Time
}
