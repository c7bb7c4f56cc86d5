package calc

import "github.com/shopspring/decimal"

func GetTaxRate() decimal.Decimal {
	return decimal.NewFromFloat(0.10)
}

func CalculateTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(GetTaxRate())
}

func CalculateGrandTotal(subtotal, taxAmount, shippingFee decimal.Decimal) decimal.Decimal {
	return subtotal.Add(taxAmount).Add(shippingFee)
}
