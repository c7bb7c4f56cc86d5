package calc

import (
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
)

func Subtotal(items []models.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

func ItemCount(items []models.LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

func EmptySummary() models.PricingSummary {
	return models.PricingSummary{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}
}

func ComputeSummary(items []models.LineItem) models.PricingSummary {
	if len(items) == 0 {
		return EmptySummary()
	}

	subtotal := Subtotal(items)
	tax := CalculateTax(subtotal)
	shipping := CalculateShipping(subtotal)

	return models.PricingSummary{
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  shipping,
		Total:     CalculateGrandTotal(subtotal, tax, shipping),
		ItemCount: ItemCount(items),
	}
}

// OrderTotal is Σ price*quantity of the order lines. Tax and shipping are not included.
func OrderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
