// AngelaMos | 2026
// provider.go

package payment

import (
	"context"
	"fmt"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/decorbook/internal/config"
	"github.com/carterperez-dev/decorbook/internal/core"
)

// Provider opens a hosted checkout for a booking. Confirmation comes back
// separately through the booking pay endpoint.
type Provider interface {
	CreateCheckoutSession(
		ctx context.Context,
		req CheckoutRequest,
	) (*CheckoutSession, error)
}

func NewProvider(cfg config.PaymentConfig) (Provider, error) {
	switch cfg.Provider {
	case "omise":
		return NewOmiseProvider(cfg)
	case "disabled":
		return DisabledProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}

type OmiseProvider struct {
	client     *omise.Client
	sourceType string
}

func NewOmiseProvider(cfg config.PaymentConfig) (*OmiseProvider, error) {
	client, err := omise.NewClient(cfg.PublicKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("create omise client: %w", err)
	}

	return &OmiseProvider{client: client, sourceType: cfg.SourceType}, nil
}

// CreateCheckoutSession creates a redirect source and a charge bound to it.
// The charge's authorize URI is where the payer completes the flow.
func (p *OmiseProvider) CreateCheckoutSession(
	ctx context.Context,
	req CheckoutRequest,
) (*CheckoutSession, error) {
	amount, err := MinorUnits(req.Amount)
	if err != nil {
		return nil, err
	}

	// omise-go has no context-aware Do; ctx only guards entry.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := &omise.Source{}
	if err := p.client.Do(src, &operations.CreateSource{
		Type:     p.sourceType,
		Amount:   amount,
		Currency: req.Currency,
	}); err != nil {
		return nil, fmt.Errorf("omise create source: %v: %w", err, core.ErrUpstream)
	}

	ch := &omise.Charge{}
	if err := p.client.Do(ch, &operations.CreateCharge{
		Amount:      amount,
		Currency:    req.Currency,
		Source:      src.ID,
		Description: req.Description,
		ReturnURI:   req.SuccessURL,
		Metadata: map[string]any{
			"booking_id":  req.BookingID,
			"payer_email": req.PayerEmail,
			"cancel_url":  req.CancelURL,
		},
	}); err != nil {
		return nil, fmt.Errorf("omise create charge: %v: %w", err, core.ErrUpstream)
	}

	return &CheckoutSession{SessionID: ch.ID, URL: ch.AuthorizeURI}, nil
}

// DisabledProvider answers every checkout with an upstream failure so
// environments without payment keys still boot.
type DisabledProvider struct{}

func (DisabledProvider) CreateCheckoutSession(
	context.Context,
	CheckoutRequest,
) (*CheckoutSession, error) {
	return nil, fmt.Errorf("payment provider disabled: %w", core.ErrUpstream)
}

// MinorUnits converts a two-decimal amount to the smallest currency unit.
func MinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("amount must be positive: %w", core.ErrInvalidInput)
	}

	minor := amount.Shift(2)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf(
			"amount %s has sub-minor precision: %w",
			amount,
			core.ErrInvalidInput,
		)
	}

	return minor.IntPart(), nil
}
