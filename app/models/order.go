package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPending = "Pending"

type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"userId"`
	CreatedAt       time.Time       `json:"createdAt"`
	Status          string          `json:"orderStatus"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
}

// Clone returns a copy of o whose item list is not shared with o.
func (o Order) Clone() Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}

func CloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, order := range orders {
		out[i] = order.Clone()
	}
	return out
}

// OrderCreateRequest carries the checkout form values. A nil address is normalised to defaults.
type OrderCreateRequest struct {
	ShippingAddress *Address `json:"shippingAddress,omitempty"`
	PaymentMethod   string   `json:"paymentMethod"`
}
