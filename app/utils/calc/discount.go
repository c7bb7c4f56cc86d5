package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DiscountedPrice returns price * (1 - discountPercent/100). Out of range percentages are not clamped.
func DiscountedPrice(price, discountPercent decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(discountPercent.Div(hundred)))
}
