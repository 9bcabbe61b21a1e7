// Package payment validates and processes payments through a pluggable Gateway.
package payment

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/apexdigital/apex/internal/apperr"
)

// Payer identifies who is paying and how.
type Payer struct {
	UserID string
	Email  string
	Name   string

	// PaymentMethod is a gateway-specific token, e.g. a Stripe pm_ id.
	PaymentMethod string

	// Metadata is passed through to the gateway.
	Metadata map[string]string
}

// Charge is a request to move money.
type Charge struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	Payer       Payer
}

// Outcome is the result of a processing attempt. On success TransactionID
// and Amount are populated; on failure Message explains why.
type Outcome struct {
	Success       bool
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	Message       string
}

// Gateway is the external payment capability.
type Gateway interface {
	// Name identifies the gateway in logs and metrics.
	Name() string

	// Charge attempts the payment. A declined payment is reported as an
	// unsuccessful Outcome; an error means the gateway could not be reached
	// or answered unexpectedly.
	Charge(ctx context.Context, charge Charge) (Outcome, error)
}

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// MaxAmount is the largest amount accepted in a single payment. Stored
// totals are summed in int64 cents, so per-payment amounts stay far below
// that range.
var MaxAmount = decimal.NewFromInt(1_000_000_000)

// Processor validates charges and runs them through a Gateway.
type Processor struct {
	gateway         Gateway
	defaultCurrency string
	logger          *slog.Logger
}

// NewProcessor creates a Processor. An empty defaultCurrency selects ZAR.
func NewProcessor(gateway Gateway, defaultCurrency string, logger *slog.Logger) *Processor {
	if defaultCurrency == "" {
		defaultCurrency = "ZAR"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{gateway: gateway, defaultCurrency: defaultCurrency, logger: logger}
}

// Gateway returns the configured gateway.
func (p *Processor) Gateway() Gateway { return p.gateway }

// Process validates the charge and submits it to the gateway. Invalid input
// returns a validation error without contacting the gateway. Gateway errors
// are folded into an unsuccessful Outcome.
func (p *Processor) Process(ctx context.Context, amount decimal.Decimal, currency string, payer Payer) (Outcome, error) {
	if !amount.IsPositive() {
		return Outcome{}, apperr.Validation("amount must be positive")
	}
	if !amount.Equal(amount.Round(2)) {
		return Outcome{}, apperr.Validation("amount must have at most two decimal places")
	}
	if amount.GreaterThan(MaxAmount) {
		return Outcome{}, apperr.Validation("amount must not exceed %s", MaxAmount.StringFixed(2))
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = p.defaultCurrency
	}
	if !currencyPattern.MatchString(currency) {
		return Outcome{}, apperr.Validation("currency %q is not a three-letter code", currency)
	}

	p.logger.Info("Processing payment",
		"gateway", p.gateway.Name(),
		"amount", amount.StringFixed(2),
		"currency", currency,
		"user_id", payer.UserID,
	)

	outcome, err := p.gateway.Charge(ctx, Charge{
		Amount:      amount,
		Currency:    currency,
		Description: "Apex Digital services",
		Payer:       payer,
	})
	if err != nil {
		p.logger.Error("Payment gateway error", "gateway", p.gateway.Name(), "error", err)
		return Outcome{Success: false, Message: "payment gateway unavailable"}, nil
	}
	if outcome.Success && outcome.TransactionID == "" {
		p.logger.Error("Payment gateway reported success without a transaction id", "gateway", p.gateway.Name())
		return Outcome{Success: false, Message: "payment gateway returned no transaction id"}, nil
	}
	if outcome.Success && outcome.Amount.IsZero() {
		outcome.Amount = amount
	}
	if outcome.Currency == "" {
		outcome.Currency = currency
	}

	return outcome, nil
}
