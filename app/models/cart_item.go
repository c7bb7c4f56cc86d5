package models

import "github.com/shopspring/decimal"

// Money travels as JSON numbers, the shape the storefront API speaks. Quoted
// values are still accepted when decoding, so state stored as strings loads.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	DefaultProductName  = "Product"
	DefaultProductImage = "assets/images/placeholder.png"
)

// LineItem is one product entry in the cart. ProductID is its identity.
type LineItem struct {
	ProductID       string          `json:"productId"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	DiscountPercent decimal.Decimal `json:"discount"`
	Name            string          `json:"name"`
	Image           string          `json:"image"`
	Product         *ProductData    `json:"product,omitempty"`
}

// LineTotal is the unit price multiplied by the quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
