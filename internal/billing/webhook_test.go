package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpointSecret = "whsec_test"

// signPayload builds a Stripe-Signature header for the body, the same
// scheme the gateway uses: HMAC-SHA256 over "<timestamp>.<body>".
func signPayload(body []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d", at.Unix())))
	mac.Write([]byte("."))
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func subscriptionEventBody(eventType string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_123",
		"type": %q,
		"data": {
			"object": {
				"id": "sub_123",
				"status": "active",
				"customer": {"id": "cus_123"},
				"current_period_start": 1700000000,
				"current_period_end": 1702592000,
				"cancel_at_period_end": true,
				"items": {"data": [{"price": {"id": "price_pro"}}]}
			}
		}
	}`, eventType))
}

func TestParseWebhook_NormalizesSubscriptionEvent(t *testing.T) {
	body := subscriptionEventBody("customer.subscription.updated")
	sig := signPayload(body, testEndpointSecret, time.Now())

	event, err := ParseWebhook(body, sig, testEndpointSecret)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, "evt_123", event.EventID)
	assert.Equal(t, EventSubscriptionUpdated, event.Type)
	assert.Equal(t, "cus_123", event.CustomerID)
	assert.Equal(t, "sub_123", event.GatewaySubID)
	assert.Equal(t, "price_pro", event.PriceID)
	assert.Equal(t, "active", event.Status)
	assert.True(t, event.CancelAtPeriodEnd)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), event.CurrentPeriodStart)
	assert.NotEmpty(t, event.Raw)
}

func TestParseWebhook_IgnoresUnhandledEventTypes(t *testing.T) {
	body := []byte(`{"id": "evt_456", "type": "invoice.paid", "data": {"object": {}}}`)
	sig := signPayload(body, testEndpointSecret, time.Now())

	event, err := ParseWebhook(body, sig, testEndpointSecret)
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestParseWebhook_RejectsBadSignature(t *testing.T) {
	body := subscriptionEventBody("customer.subscription.created")

	_, err := ParseWebhook(body, signPayload(body, "whsec_other", time.Now()), testEndpointSecret)
	assert.Error(t, err)

	// A stale timestamp fails the tolerance check too.
	stale := signPayload(body, testEndpointSecret, time.Now().Add(-time.Hour))
	_, err = ParseWebhook(body, stale, testEndpointSecret)
	assert.Error(t, err)
}
