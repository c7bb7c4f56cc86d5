package calc

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.NewFromInt(1000)
	FlatShippingFee       = decimal.NewFromInt(49)
)

// CalculateShipping waives the flat fee for an empty cart and for subtotals at or above the threshold.
func CalculateShipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() || subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}
