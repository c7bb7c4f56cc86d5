package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-storefront/app/models"
)

// RemoteCartRepository stores the cart payloads mirrored by clients, one per owner.
type RemoteCartRepository interface {
	GetCart(ctx context.Context, ownerID string) (*models.CartPayload, error)
	SaveCart(ctx context.Context, ownerID string, payload *models.CartPayload) error
}

type kvRemoteCartRepository struct {
	store KeyValueStore
}

func NewRemoteCartRepository(store KeyValueStore) RemoteCartRepository {
	return &kvRemoteCartRepository{store: store}
}

func remoteCartKey(ownerID string) string {
	return fmt.Sprintf("cart:%s", ownerID)
}

// GetCart returns an empty payload for an owner that never saved a cart.
func (r *kvRemoteCartRepository) GetCart(ctx context.Context, ownerID string) (*models.CartPayload, error) {
	raw, err := r.store.Get(ctx, remoteCartKey(ownerID))
	if errors.Is(err, ErrKeyNotFound) {
		return &models.CartPayload{Items: []models.LineItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for %s: %w", ownerID, err)
	}

	var payload models.CartPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if payload.Items == nil {
		payload.Items = []models.LineItem{}
	}
	return &payload, nil
}

func (r *kvRemoteCartRepository) SaveCart(ctx context.Context, ownerID string, payload *models.CartPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cart for %s: %w", ownerID, err)
	}
	if err := r.store.Set(ctx, remoteCartKey(ownerID), string(raw)); err != nil {
		return fmt.Errorf("failed to save cart for %s: %w", ownerID, err)
	}
	return nil
}
