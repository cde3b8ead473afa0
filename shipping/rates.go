package shipping

import "math"

// Weight-tier courier rates (RM). First kg at the base rate, every additional
// kg (rounded up) at the step rate.
const (
	baseRate = 8.0
	stepRate = 2.0
)

// Rate calculates the delivery charge for a parcel of the given total weight
// in kg. Zero-weight carts (digital goods) ship free.
func Rate(totalWeight float64) float64 {
	if totalWeight <= 0 {
		return 0
	}
	extra := math.Ceil(totalWeight) - 1
	if extra < 0 {
		extra = 0
	}
	return baseRate + extra*stepRate
}
