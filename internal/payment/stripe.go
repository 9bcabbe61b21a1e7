package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeGateway charges through Stripe PaymentIntents, confirming immediately
// with the payer's payment method.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway returns a gateway authenticated with secretKey.
func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

// NewStripeGatewayWithBackends is NewStripeGateway with explicit backends,
// e.g. pointing at a test server.
func NewStripeGatewayWithBackends(secretKey string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, backends)}
}

func (g *StripeGateway) Name() string { return "stripe" }

// Charge creates and confirms a PaymentIntent.
func (g *StripeGateway) Charge(ctx context.Context, charge Charge) (Outcome, error) {
	if charge.Payer.PaymentMethod == "" {
		return Outcome{Success: false, Message: "payment method is required"}, nil
	}

	cents := charge.Amount.Shift(2)
	if !cents.IsInteger() || !cents.BigInt().IsInt64() {
		return Outcome{}, fmt.Errorf("amount %s cannot be expressed in int64 minor units", charge.Amount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(cents.IntPart()),
		Currency:      stripe.String(strings.ToLower(charge.Currency)),
		PaymentMethod: stripe.String(charge.Payer.PaymentMethod),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(charge.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	if charge.Payer.Email != "" {
		params.ReceiptEmail = stripe.String(charge.Payer.Email)
	}
	if charge.Payer.UserID != "" {
		params.AddMetadata("user_id", charge.Payer.UserID)
	}
	for k, v := range charge.Payer.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return Outcome{Success: false, Message: stripeErr.Msg}, nil
		}
		return Outcome{}, fmt.Errorf("failed to create payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return Outcome{
			Success: false,
			Message: fmt.Sprintf("payment not completed (status %s)", pi.Status),
		}, nil
	}

	return Outcome{
		Success:       true,
		TransactionID: pi.ID,
		Amount:        charge.Amount,
		Message:       "Payment processed successfully",
	}, nil
}
