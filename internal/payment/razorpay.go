package payment

import (
	"fmt"

	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

// Order is what the widget needs to render a payment for one checkout.
type Order struct {
	Reference string
	Amount    types.Money
	Email     string
	Name      string
}

// Options is the client-side widget configuration handed back to the
// storefront. Amount is in the provider's minor units.
type Options struct {
	AttemptID   string  `json:"attempt_id"`
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Reference   string  `json:"reference"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

// Prefill seeds the widget's contact fields.
type Prefill struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Theme styles the hosted widget.
type Theme struct {
	Color string `json:"color,omitempty"`
}

// Provider builds widget sessions from the configured merchant account.
type Provider struct {
	cfg config.RazorpayConfig
}

// NewProvider validates the merchant configuration.
func NewProvider(cfg config.RazorpayConfig) (*Provider, error) {
	if cfg.KeyID == "" {
		return nil, fmt.Errorf("razorpay key id required")
	}
	return &Provider{cfg: cfg}, nil
}

// Open starts a fresh single-shot widget session for the given order and
// returns the client options that render it.
func (p *Provider) Open(order Order) (*Session, Options) {
	sess := newSession()
	return sess, Options{
		AttemptID:   sess.ID(),
		Key:         p.cfg.KeyID,
		Amount:      order.Amount.MinorUnits(),
		Currency:    order.Amount.Currency,
		Name:        p.cfg.DisplayName,
		Description: "Order payment",
		Reference:   order.Reference,
		Prefill:     Prefill{Name: order.Name, Email: order.Email},
		Theme:       Theme{Color: p.cfg.ThemeColor},
	}
}
