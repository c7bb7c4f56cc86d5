package models

import "github.com/shopspring/decimal"

// PricingSummary is derived from the cart items and never stored on its own.
type PricingSummary struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// CartPayload is the body exchanged with the remote cart endpoint.
type CartPayload struct {
	Items   []LineItem      `json:"items"`
	Summary *PricingSummary `json:"summary,omitempty"`
}

// CloneItems returns a deep copy of items. The embedded product and its image
// list are copied too, so the result shares no memory with the input.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Product != nil {
			product := out[i].Product.Clone()
			out[i].Product = &product
		}
	}
	return out
}
