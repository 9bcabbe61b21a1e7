package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fixed distribution percentages for every recorded payment.
var (
	AIUpgradeRate    = decimal.RequireFromString("0.20")
	ReserveFundRate  = decimal.RequireFromString("0.20")
	OwnerRevenueRate = decimal.RequireFromString("0.60")
)

// centPlaces is the precision shares are rounded to.
const centPlaces = 2

// Distribution is the split of a payment into its three accounting buckets.
type Distribution struct {
	AIUpgrade    decimal.Decimal
	ReserveFund  decimal.Decimal
	OwnerRevenue decimal.Decimal
}

// Total returns the sum of the three shares.
func (d Distribution) Total() decimal.Decimal {
	return d.AIUpgrade.Add(d.ReserveFund).Add(d.OwnerRevenue)
}

// Distribute splits amount 20% / 20% / 60% into AI upgrades, reserve fund
// and owner revenue. The two minor shares are rounded to cents and the owner
// share takes the remainder, so the shares always sum to amount exactly.
func Distribute(amount decimal.Decimal) (Distribution, error) {
	if amount.IsNegative() {
		return Distribution{}, fmt.Errorf("amount cannot be negative: %s", amount)
	}

	aiUpgrade := amount.Mul(AIUpgradeRate).Round(centPlaces)
	reserve := amount.Mul(ReserveFundRate).Round(centPlaces)

	return Distribution{
		AIUpgrade:    aiUpgrade,
		ReserveFund:  reserve,
		OwnerRevenue: amount.Sub(aiUpgrade).Sub(reserve),
	}, nil
}
