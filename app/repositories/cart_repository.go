package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-storefront/app/models"
)

const CartItemsKey = "storefront_cart_items"

var ErrMalformedState = errors.New("malformed stored state")

// CartRepository persists the local cart snapshot under a fixed key.
type CartRepository interface {
	LoadItems(ctx context.Context) ([]models.LineItem, error)
	SaveItems(ctx context.Context, items []models.LineItem) error
}

type kvCartRepository struct {
	store KeyValueStore
}

func NewCartRepository(store KeyValueStore) CartRepository {
	return &kvCartRepository{store: store}
}

// LoadItems returns nil when nothing is stored. Any entry that breaks the cart
// invariants rejects the whole stored value with ErrMalformedState.
func (r *kvCartRepository) LoadItems(ctx context.Context) ([]models.LineItem, error) {
	raw, err := r.store.Get(ctx, CartItemsKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var items []models.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if err := ValidateLineItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *kvCartRepository) SaveItems(ctx context.Context, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.store.Set(ctx, CartItemsKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

func ValidateLineItems(items []models.LineItem) error {
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: item %d has no product id", ErrMalformedState, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %s has quantity %d", ErrMalformedState, item.ProductID, item.Quantity)
		}
		if _, dup := seen[item.ProductID]; dup {
			return fmt.Errorf("%w: duplicate item %s", ErrMalformedState, item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}
