package catalog

import "math"

// ROI describes the projected return of a supply-control position in one
// card, under the simple model that every 10% of market control adds 50% to
// the price.
type ROI struct {
	TargetQuantity           int     // Copies needed to reach the target ownership share
	MarketControlPercentage  float64 // Current share of total supply, in percent
	EstimatedPriceIncrease   float64 // Projected per-copy price under the model
	PotentialValue           float64 // Projected value of the current position
	ReturnOnInvestmentPct    float64 // Projected return over cost, in percent
}

// PotentialROI projects the return of holding quantityOwned copies out of
// totalSupply at currentPrice, aiming for targetOwnership (a fraction, e.g.
// 0.5 for half the supply). Returns a zero ROI when the inputs make the
// model meaningless (no supply or no position).
func PotentialROI(currentPrice float64, quantityOwned, totalSupply int, targetOwnership float64) ROI {
	if totalSupply <= 0 || quantityOwned <= 0 || currentPrice <= 0 {
		return ROI{}
	}

	targetQuantity := int(math.Ceil(float64(totalSupply) * targetOwnership))
	marketControl := float64(quantityOwned) / float64(totalSupply) * 100

	priceMultiplier := 1 + (marketControl/10)*0.5
	estimatedPrice := currentPrice * priceMultiplier
	potentialValue := float64(quantityOwned) * estimatedPrice
	invested := float64(quantityOwned) * currentPrice

	return ROI{
		TargetQuantity:          targetQuantity,
		MarketControlPercentage: marketControl,
		EstimatedPriceIncrease:  estimatedPrice,
		PotentialValue:          potentialValue,
		ReturnOnInvestmentPct:   (potentialValue - invested) / invested * 100,
	}
}
