package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SimulatedGateway approves every charge without contacting anyone.
type SimulatedGateway struct {
	now func() time.Time
}

// NewSimulatedGateway returns a gateway that always succeeds.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{now: time.Now}
}

func (g *SimulatedGateway) Name() string { return "simulated" }

// Charge approves the payment with a transaction id of the form
// PAY-YYYYMMDDhhmmss-XXXXXXXX. The random suffix keeps ids distinct for
// charges made within the same second.
func (g *SimulatedGateway) Charge(ctx context.Context, charge Charge) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return Outcome{
		Success:       true,
		TransactionID: "PAY-" + g.now().UTC().Format("20060102150405") + "-" + suffix,
		Amount:        charge.Amount,
		Message:       "Payment processed successfully",
	}, nil
}
