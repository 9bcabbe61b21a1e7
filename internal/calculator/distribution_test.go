package calculator

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		wantAI      string
		wantReserve string
		wantOwner   string
		wantErr     bool
	}{
		{name: "round thousand", amount: "1000", wantAI: "200", wantReserve: "200", wantOwner: "600"},
		{name: "zero", amount: "0", wantAI: "0", wantReserve: "0", wantOwner: "0"},
		{name: "residual cent goes to owner", amount: "0.01", wantAI: "0", wantReserve: "0", wantOwner: "0.01"},
		{name: "odd cents", amount: "99.99", wantAI: "20", wantReserve: "20", wantOwner: "59.99"},
		{name: "rounds to nearest cent", amount: "12.34", wantAI: "2.47", wantReserve: "2.47", wantOwner: "7.40"},
		{name: "negative amount should error", amount: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got, err := Distribute(amount)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Distribute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if !got.AIUpgrade.Equal(decimal.RequireFromString(tt.wantAI)) {
				t.Errorf("AIUpgrade = %s, want %s", got.AIUpgrade, tt.wantAI)
			}
			if !got.ReserveFund.Equal(decimal.RequireFromString(tt.wantReserve)) {
				t.Errorf("ReserveFund = %s, want %s", got.ReserveFund, tt.wantReserve)
			}
			if !got.OwnerRevenue.Equal(decimal.RequireFromString(tt.wantOwner)) {
				t.Errorf("OwnerRevenue = %s, want %s", got.OwnerRevenue, tt.wantOwner)
			}
			if !got.Total().Equal(amount) {
				t.Errorf("shares sum to %s, want %s", got.Total(), amount)
			}
		})
	}
}

func TestDistributeSumsExactly(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tolerance := decimal.RequireFromString("0.01")

	for i := 0; i < 1000; i++ {
		amount := decimal.New(rng.Int64N(100_000_000), -2)
		got, err := Distribute(amount)
		if err != nil {
			t.Fatalf("Distribute(%s) failed: %v", amount, err)
		}
		if !got.Total().Equal(amount) {
			t.Fatalf("Distribute(%s) shares sum to %s", amount, got.Total())
		}

		// Each share stays within a cent of its exact percentage.
		checks := []struct {
			share decimal.Decimal
			rate  decimal.Decimal
		}{
			{got.AIUpgrade, AIUpgradeRate},
			{got.ReserveFund, ReserveFundRate},
			{got.OwnerRevenue, OwnerRevenueRate},
		}
		for _, c := range checks {
			exact := amount.Mul(c.rate)
			if c.share.Sub(exact).Abs().GreaterThan(tolerance) {
				t.Fatalf("Distribute(%s): share %s too far from %s", amount, c.share, exact)
			}
		}
	}
}
