package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-storefront/app/models"
)

const OrdersKey = "storefront_orders"

// OrderRepository persists the local order history, newest first.
type OrderRepository interface {
	List(ctx context.Context) ([]models.Order, error)
	SaveAll(ctx context.Context, orders []models.Order) error
}

type kvOrderRepository struct {
	store KeyValueStore
}

func NewOrderRepository(store KeyValueStore) OrderRepository {
	return &kvOrderRepository{store: store}
}

func (r *kvOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	raw, err := r.store.Get(ctx, OrdersKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	var orders []models.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return orders, nil
}

func (r *kvOrderRepository) SaveAll(ctx context.Context, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	raw, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}
	if err := r.store.Set(ctx, OrdersKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write orders: %w", err)
	}
	return nil
}
