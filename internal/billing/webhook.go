package billing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// SubscriptionEvent is the normalized form of an inbound gateway webhook
// event. The HTTP handler decodes the wire format into this and hands it
// to the billing service, which never sees raw Stripe payloads.
type SubscriptionEvent struct {
	EventID            string
	Type               string // subscription.created / subscription.updated / subscription.deleted
	CustomerID         string
	GatewaySubID       string
	PriceID            string
	Status             string // gateway status string: trialing, active, canceled, past_due, unpaid
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	Raw                []byte
}

const (
	EventSubscriptionCreated = "subscription.created"
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
)

// maxWebhookBody bounds how much of the webhook body is read.
const maxWebhookBody = int64(65536)

// MaxWebhookBody is exported for the HTTP handler's body limit.
func MaxWebhookBody() int64 { return maxWebhookBody }

// ParseWebhook verifies the gateway signature and normalizes the event.
// Events this system does not consume return (nil, nil).
func ParseWebhook(body []byte, sigHeader, endpointSecret string) (*SubscriptionEvent, error) {
	event, err := webhook.ConstructEventWithOptions(
		body,
		sigHeader,
		endpointSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}

	var eventType string
	switch event.Type {
	case "customer.subscription.created":
		eventType = EventSubscriptionCreated
	case "customer.subscription.updated":
		eventType = EventSubscriptionUpdated
	case "customer.subscription.deleted":
		eventType = EventSubscriptionDeleted
	default:
		return nil, nil
	}

	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("invalid subscription payload: %w", err)
	}

	normalized := &SubscriptionEvent{
		EventID:            event.ID,
		Type:               eventType,
		GatewaySubID:       sub.ID,
		Status:             string(sub.Status),
		CurrentPeriodStart: time.Unix(sub.CurrentPeriodStart, 0).UTC(),
		CurrentPeriodEnd:   time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		Raw:                event.Data.Raw,
	}
	if sub.Customer != nil {
		normalized.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		normalized.PriceID = sub.Items.Data[0].Price.ID
	}

	return normalized, nil
}
