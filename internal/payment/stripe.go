package payment

import (
	"context"
	"log"

	stripe "github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/paymentintent"
)

// StripeProcessor charges cards through Stripe PaymentIntents.  The
// hold reference is reused as the idempotency key so a retried charge
// for the same hold never bills twice.
type StripeProcessor struct{}

// NewStripeProcessor configures the global Stripe client with the API
// key and returns a processor.
func NewStripeProcessor(apiKey string) *StripeProcessor {
	stripe.Key = apiKey
	return &StripeProcessor{}
}

// Charge creates a confirmed PaymentIntent for the hold amount.
func (p *StripeProcessor) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount)),
		Currency: stripe.String(string(stripe.CurrencyIDR)),
	}
	params.SetIdempotencyKey(req.HoldReference)

	pi, err := paymentintent.New(params)
	if err != nil {
		log.Printf("stripe: payment intent for %s failed: %v", req.HoldReference, err)
		return ChargeResult{}, err
	}
	return ChargeResult{ProviderRef: pi.ID}, nil
}
