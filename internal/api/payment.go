package api

import (
	"context"
	"net/http"
)

// PricingTier describes one subscription plan.
type PricingTier struct {
	Name          string   `json:"name"`
	DisplayName   string   `json:"display_name"`
	PriceMonthly  float64  `json:"price_monthly"`
	AnalysisLimit int64    `json:"analysis_limit"`
	Features      []string `json:"features"`
}

// CheckoutSession is a hosted checkout the user completes in a browser.
// The payment widget itself is the processor's; this client only obtains
// the URL.
type CheckoutSession struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// BillingRecord is one past charge.
type BillingRecord struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Tier      string  `json:"tier"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// ListTiers retrieves the available plans. Public: works signed out.
func (c *Client) ListTiers(ctx context.Context) ([]PricingTier, error) {
	var tiers []PricingTier
	if err := c.Call(ctx, http.MethodGet, "/payment/pricing", nil, &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

// CreateCheckout starts a checkout for a tier upgrade.
func (c *Client) CreateCheckout(ctx context.Context, tier string) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.Call(ctx, http.MethodPost, "/payment/checkout", map[string]string{
		"tier": tier,
	}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// BillingHistory lists past charges.
func (c *Client) BillingHistory(ctx context.Context) ([]BillingRecord, error) {
	var records []BillingRecord
	if err := c.Call(ctx, http.MethodGet, "/payment/history", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}
