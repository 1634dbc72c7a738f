// Package rating computes base premiums for rated products. It is pure:
// deterministic, no I/O, safe for concurrent and repeated calls.
package rating

import (
	"github.com/shopspring/decimal"

	"github.com/WoodenTech/fleetcover/internal/model"
)

// ComputePremium prices a (product, vehicle set, coverage selection) triple:
//
//	(baseRate * len(vehicleIDs) + sum of coverage premiums) * multiplier
//
// The multiplier is the arithmetic mean of the product's rating factor
// multipliers, or exactly 1 when the product has none. Averaging instead of
// compounding understates risk differentiation between factors, but existing
// products were rated this way and repricing them is not acceptable.
func ComputePremium(product *model.Product, vehicleIDs []string, coverages []model.Coverage) decimal.Decimal {
	premium := product.BaseRate.Mul(decimal.NewFromInt(int64(len(vehicleIDs))))
	for _, c := range coverages {
		premium = premium.Add(c.Premium)
	}
	return premium.Mul(aggregateMultiplier(product.RatingFactors))
}

func aggregateMultiplier(factors []model.RatingFactor) decimal.Decimal {
	if len(factors) == 0 {
		return decimal.NewFromInt(1)
	}
	sum := decimal.Zero
	for _, f := range factors {
		sum = sum.Add(f.Multiplier)
	}
	return sum.Div(decimal.NewFromInt(int64(len(factors))))
}
