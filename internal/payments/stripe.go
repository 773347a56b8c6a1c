// Package payments opens hosted checkout pages with Stripe.
package payments

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"

	"kalaur/internal/domain"
)

var errNoSession = errors.New("stripe returned no checkout session")

type Stripe struct {
	create func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewStripe configures the Stripe key. It returns nil for an empty key so
// checkout stays "not configured".
func NewStripe(secretKey string) *Stripe {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return nil
	}
	stripe.Key = secretKey
	return &Stripe{create: session.New}
}

// BuildParams maps a payment request onto a card-only payment-mode session.
func BuildParams(req domain.PaymentRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	for _, li := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(li.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(li.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:     stripe.String(li.Name),
					Metadata: map[string]string{"product_id": li.ProductID},
				},
			},
		})
	}
	if len(req.Metadata) > 0 {
		params.Metadata = req.Metadata
	}
	return params
}

func (s *Stripe) CreateSession(ctx context.Context, req domain.PaymentRequest) (string, error) {
	params := BuildParams(req)
	params.Context = ctx
	sess, err := s.create(params)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", errNoSession
	}
	return sess.URL, nil
}
