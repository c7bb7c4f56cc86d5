package models

import "github.com/shopspring/decimal"

// ProductData is the catalog descriptor handed to the cart when a shopper adds a product.
type ProductData struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Images      []string        `json:"images,omitempty"`
	Stock       int             `json:"stock,omitempty"`
}

func (p ProductData) Clone() ProductData {
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	return p
}
