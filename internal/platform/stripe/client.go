package stripe

import (
	"context"
	"fmt"

	cfgpkg "github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/config"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/fx"
)

// ChargeDetail is the slice of processor charge data the reconciler needs
// when an invoice event arrives for a payment intent we have not seen.
type ChargeDetail struct {
	ChargeID  string
	CardBrand string
	CardLast4 string
}

// ChargeDetailFetcher looks up charge detail for a payment intent from the
// processor. The reconciler depends on this port; tests stub it.
type ChargeDetailFetcher interface {
	FetchChargeDetail(ctx context.Context, paymentIntentID string) (*ChargeDetail, error)
}

// Client wraps the Stripe API client for outbound lookups.
type Client struct {
	api *client.API
}

func NewClient(cfg *cfgpkg.Config) *Client {
	api := &client.API{}
	api.Init(cfg.Stripe.SecretKey, nil)
	return &Client{api: api}
}

func (c *Client) FetchChargeDetail(ctx context.Context, paymentIntentID string) (*ChargeDetail, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx, Expand: []*string{stripe.String("latest_charge")}},
	}
	pi, err := c.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get payment intent %s: %w", paymentIntentID, err)
	}

	detail := &ChargeDetail{CardBrand: "N/A", CardLast4: "N/A"}
	ch := pi.LatestCharge
	if ch == nil {
		return detail, nil
	}
	detail.ChargeID = ch.ID
	if ch.PaymentMethodDetails != nil && ch.PaymentMethodDetails.Card != nil {
		if ch.PaymentMethodDetails.Card.Brand != "" {
			detail.CardBrand = string(ch.PaymentMethodDetails.Card.Brand)
		}
		if ch.PaymentMethodDetails.Card.Last4 != "" {
			detail.CardLast4 = ch.PaymentMethodDetails.Card.Last4
		}
	}
	return detail, nil
}

var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Provide(func(c *Client) ChargeDetailFetcher { return c }),
)
