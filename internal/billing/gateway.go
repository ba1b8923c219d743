package billing

import (
	"fmt"

	"nudge_backend/internal/config"
	"nudge_backend/internal/models"

	"github.com/stripe/stripe-go/v79"
	portal "github.com/stripe/stripe-go/v79/billingportal/session"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/subscription"
)

// Gateway is the outbound boundary to the payment processor. An
// interface so the billing service can be tested against a fake.
type Gateway interface {
	// EnsureCustomer creates a gateway customer for the user if one does
	// not exist yet and returns its id.
	EnsureCustomer(existingCustomerID, userID, email string) (string, error)
	// CreateCheckoutSession starts a subscription checkout for the plan
	// and returns the hosted checkout URL.
	CreateCheckoutSession(customerID string, plan models.SubscriptionPlan) (string, error)
	// CreatePortalSession returns a hosted billing-portal URL.
	CreatePortalSession(customerID string) (string, error)
	// CancelSubscription cancels an active gateway subscription.
	CancelSubscription(gatewaySubID string) error
	// PlanForPrice maps a gateway price id back to a plan.
	PlanForPrice(priceID string) (models.SubscriptionPlan, bool)
}

type stripeGateway struct {
	cfg *config.Config
}

// InitStripe wires the Stripe API key from configuration. Call once at
// process start.
func InitStripe(cfg *config.Config) {
	stripe.Key = cfg.Stripe.SecretKey
}

func NewStripeGateway(cfg *config.Config) Gateway {
	return &stripeGateway{cfg: cfg}
}

func (g *stripeGateway) priceForPlan(plan models.SubscriptionPlan) (string, error) {
	switch plan {
	case models.PlanPro:
		return g.cfg.Stripe.PriceIDPro, nil
	case models.PlanEnterprise:
		return g.cfg.Stripe.PriceIDEnterpise, nil
	default:
		return "", fmt.Errorf("plan %s has no gateway price", plan)
	}
}

func (g *stripeGateway) PlanForPrice(priceID string) (models.SubscriptionPlan, bool) {
	switch priceID {
	case g.cfg.Stripe.PriceIDPro:
		return models.PlanPro, true
	case g.cfg.Stripe.PriceIDEnterpise:
		return models.PlanEnterprise, true
	default:
		return "", false
	}
}

func (g *stripeGateway) EnsureCustomer(existingCustomerID, userID, email string) (string, error) {
	if existingCustomerID != "" {
		return existingCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Metadata: map[string]string{
			"user_id": userID,
		},
	}
	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create gateway customer: %w", err)
	}
	return cust.ID, nil
}

func (g *stripeGateway) CreateCheckoutSession(customerID string, plan models.SubscriptionPlan) (string, error) {
	priceID, err := g.priceForPlan(plan)
	if err != nil {
		return "", err
	}

	baseURL := g.cfg.App.BaseURL
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(baseURL + "/billing/success"),
		CancelURL:  stripe.String(baseURL + "/billing/cancel"),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (g *stripeGateway) CreatePortalSession(customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(g.cfg.App.BaseURL + "/settings/billing"),
	}

	sess, err := portal.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return sess.URL, nil
}

func (g *stripeGateway) CancelSubscription(gatewaySubID string) error {
	_, err := subscription.Cancel(gatewaySubID, nil)
	if err != nil {
		return fmt.Errorf("failed to cancel gateway subscription: %w", err)
	}
	return nil
}
