package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/Rakhulsr/go-storefront/app/utils/stream"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const restoreFlightKey = "remote-cart"

// CartStore owns the cart line items and the pricing summary derived from them.
//
// Mutations are serialised: each one recomputes the summary, publishes the new
// items and then the new summary, persists the items locally and queues a remote
// mirror. Invalid input is ignored silently. Storage and network failures are
// logged and never returned.
type CartStore struct {
	mu       sync.Mutex
	items    []models.LineItem
	revision uint64

	repo    repositories.CartRepository
	remote  CartAPIClient
	syncer  *CartSyncer
	flights singleflight.Group
	logger  *zap.SugaredLogger

	itemsSubject   *stream.Subject[[]models.LineItem]
	summarySubject *stream.Subject[models.PricingSummary]
}

// NewCartStore builds an empty store. A nil remote disables both mirroring and
// the remote half of Restore.
func NewCartStore(repo repositories.CartRepository, remote CartAPIClient, logger *zap.SugaredLogger) *CartStore {
	s := &CartStore{
		repo:           repo,
		remote:         remote,
		logger:         logger,
		itemsSubject:   stream.NewSubject([]models.LineItem{}),
		summarySubject: stream.NewSubject(calc.EmptySummary()),
	}
	if remote != nil {
		s.syncer = NewCartSyncer(remote, logger)
	}
	return s
}

// AddItem adds one unit of product. A product without an id is ignored. An
// item already in the cart keeps its prices and gains one unit.
func (s *CartStore) AddItem(ctx context.Context, product models.ProductData) {
	if strings.TrimSpace(product.ID) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := models.CloneItems(s.items)
	if i := indexOf(next, product.ID); i >= 0 {
		next[i].Quantity++
	} else {
		next = append(next, newLineItem(product))
	}
	s.commit(ctx, next)
}

// UpdateQuantity replaces the quantity of an existing item. Quantities below one,
// a blank id or an unknown id leave the cart untouched.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if strings.TrimSpace(productID) == "" || quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, productID)
	if i < 0 {
		return
	}
	next := models.CloneItems(s.items)
	next[i].Quantity = quantity
	s.commit(ctx, next)
}

func (s *CartStore) RemoveItem(ctx context.Context, productID string) {
	if strings.TrimSpace(productID) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, productID)
	if i < 0 {
		return
	}
	next := make([]models.LineItem, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	s.commit(ctx, next)
}

func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, []models.LineItem{})
}

// Snapshot returns a copy of the items in insertion order.
func (s *CartStore) Snapshot() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneItems(s.items)
}

func (s *CartStore) Summary() models.PricingSummary {
	return s.summarySubject.Value()
}

func (s *CartStore) IsInCart(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.items, productID) >= 0
}

// SubscribeItems returns the current items followed by every later list. A slow
// reader only sees the newest list. Call cancel when done.
func (s *CartStore) SubscribeItems() (<-chan []models.LineItem, func()) {
	return s.itemsSubject.Subscribe()
}

func (s *CartStore) SubscribeSummary() (<-chan models.PricingSummary, func()) {
	return s.summarySubject.Subscribe()
}

// Restore loads the locally persisted cart, then asks the remote API for its
// copy. A non-empty remote list replaces the local one unless the cart was
// mutated while the request was in flight.
func (s *CartStore) Restore(ctx context.Context) {
	s.restoreLocal(ctx)
	if s.remote == nil {
		return
	}

	s.mu.Lock()
	startRevision := s.revision
	s.mu.Unlock()

	result, err, _ := s.flights.Do(restoreFlightKey, func() (interface{}, error) {
		return s.remote.FetchCart(ctx)
	})
	if err != nil {
		s.logger.Warnf("CartStore.Restore: remote cart unavailable, keeping local state: %v", err)
		return
	}

	payload, _ := result.(*models.CartPayload)
	if payload == nil || len(payload.Items) == 0 {
		return
	}
	if err := repositories.ValidateLineItems(payload.Items); err != nil {
		s.logger.Warnf("CartStore.Restore: ignoring remote cart: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision != startRevision {
		s.logger.Infof("CartStore.Restore: cart changed during remote fetch, keeping local state")
		return
	}
	s.apply(models.CloneItems(payload.Items))
	s.persist(ctx)
}

// Close flushes the pending remote mirror, bounded by ctx, and closes the streams.
func (s *CartStore) Close(ctx context.Context) error {
	var err error
	if s.syncer != nil {
		err = s.syncer.Close(ctx)
	}
	s.itemsSubject.Close()
	s.summarySubject.Close()
	return err
}

func (s *CartStore) restoreLocal(ctx context.Context) {
	items, err := s.repo.LoadItems(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrMalformedState) {
			s.logger.Errorf("CartStore.Restore: stored cart is unreadable, starting empty: %v", err)
		} else {
			s.logger.Errorf("CartStore.Restore: failed to load stored cart: %v", err)
		}
		items = nil
	}
	if items == nil {
		items = []models.LineItem{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(items)
}

// commit must be called with s.mu held.
func (s *CartStore) commit(ctx context.Context, next []models.LineItem) {
	summary := s.apply(next)
	s.persist(ctx)

	s.revision++
	if s.syncer != nil {
		s.syncer.Enqueue(s.revision, models.CartPayload{
			Items:   models.CloneItems(next),
			Summary: &summary,
		})
	}
}

// apply must be called with s.mu held. Items are published before the summary.
func (s *CartStore) apply(next []models.LineItem) models.PricingSummary {
	s.items = next
	summary := calc.ComputeSummary(next)
	s.itemsSubject.Next(models.CloneItems(next))
	s.summarySubject.Next(summary)
	return summary
}

func (s *CartStore) persist(ctx context.Context) {
	if err := s.repo.SaveItems(ctx, s.items); err != nil {
		s.logger.Errorf("CartStore.persist: failed to save cart locally: %v", err)
	}
}

func newLineItem(product models.ProductData) models.LineItem {
	name := product.Name
	if name == "" {
		name = models.DefaultProductName
	}
	image := models.DefaultProductImage
	if len(product.Images) > 0 && product.Images[0] != "" {
		image = product.Images[0]
	}

	embedded := product.Clone()
	return models.LineItem{
		ProductID:       product.ID,
		Quantity:        1,
		Price:           calc.DiscountedPrice(product.Price, product.Discount),
		OriginalPrice:   product.Price,
		DiscountPercent: product.Discount,
		Name:            name,
		Image:           image,
		Product:         &embedded,
	}
}

func indexOf(items []models.LineItem, productID string) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
