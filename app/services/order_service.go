package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/Rakhulsr/go-storefront/app/utils/stream"
	"go.uber.org/zap"
)

var ErrUnauthenticated = errors.New("user must be logged in to place an order")

// OrderService turns cart snapshots into locally stored orders. Orders are kept
// newest first and are never modified after creation.
type OrderService struct {
	mu      sync.Mutex
	repo    repositories.OrderRepository
	session *AuthSession
	logger  *zap.SugaredLogger
	now     func() time.Time
	newID   func() string

	orders        []models.Order
	ordersSubject *stream.Subject[[]models.Order]
}

func NewOrderService(repo repositories.OrderRepository, session *AuthSession, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{
		repo:          repo,
		session:       session,
		logger:        logger,
		now:           time.Now,
		newID:         helpers.GenerateOrderID,
		orders:        []models.Order{},
		ordersSubject: stream.NewSubject([]models.Order{}),
	}
}

// CreateOrder records an order for the signed-in user. Without a user it returns
// ErrUnauthenticated and changes nothing. The total is Σ price*quantity of the
// items; tax and shipping are not part of it. The cart itself is left alone.
func (s *OrderService) CreateOrder(ctx context.Context, items []models.LineItem, req models.OrderCreateRequest) (*models.Order, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, ErrUnauthenticated
	}

	orderItems := models.ToOrderItems(items)
	address := NormalizeShippingAddress(req.ShippingAddress)

	order := models.Order{
		ID:              s.newID(),
		UserID:          user.ID,
		CreatedAt:       s.now().UTC(),
		Status:          models.OrderStatusPending,
		TotalAmount:     calc.OrderTotal(orderItems),
		Items:           orderItems,
		ShippingAddress: address,
		PaymentMethod:   req.PaymentMethod,
	}

	s.session.UpdateAddress(ctx, address)

	s.mu.Lock()
	updated := make([]models.Order, 0, len(s.orders)+1)
	updated = append(updated, order)
	updated = append(updated, s.orders...)
	s.orders = updated
	s.ordersSubject.Next(models.CloneOrders(updated))
	if err := s.repo.SaveAll(ctx, updated); err != nil {
		s.logger.Errorf("OrderService.CreateOrder: failed to persist orders: %v", err)
	}
	s.mu.Unlock()

	created := order.Clone()
	return &created, nil
}

// UserOrders returns the orders of the signed-in user, newest first. It is
// empty when nobody is signed in.
func (s *OrderService) UserOrders() []models.Order {
	user := s.session.CurrentUser()
	if user == nil {
		return []models.Order{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return filterOrders(s.orders, user.ID)
}

// Orders returns copies of every stored order, newest first.
func (s *OrderService) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneOrders(s.orders)
}

func (s *OrderService) OrderByID(id string) (*models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.ID == id {
			found := order.Clone()
			return &found, true
		}
	}
	return nil, false
}

func (s *OrderService) SubscribeOrders() (<-chan []models.Order, func()) {
	return s.ordersSubject.Subscribe()
}

// Restore loads stored orders. An unreadable value is logged and leaves the list empty.
func (s *OrderService) Restore(ctx context.Context) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Errorf("OrderService.Restore: failed to load orders: %v", err)
		return
	}
	if orders == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	s.ordersSubject.Next(models.CloneOrders(orders))
}

func (s *OrderService) Close() {
	s.ordersSubject.Close()
}

// NormalizeShippingAddress trims every field and fills the label and country
// defaults. A nil address yields the defaults only.
func NormalizeShippingAddress(address *models.Address) models.Address {
	if address == nil {
		return models.Address{
			Label:   models.DefaultAddressLabel,
			Country: models.DefaultAddressCountry,
		}
	}

	normalized := models.Address{
		Label:      strings.TrimSpace(address.Label),
		Street:     strings.TrimSpace(address.Street),
		City:       strings.TrimSpace(address.City),
		State:      strings.TrimSpace(address.State),
		PostalCode: strings.TrimSpace(address.PostalCode),
		Country:    strings.TrimSpace(address.Country),
		IsDefault:  address.IsDefault,
	}
	if normalized.Label == "" {
		normalized.Label = models.DefaultAddressLabel
	}
	if normalized.Country == "" {
		normalized.Country = models.DefaultAddressCountry
	}
	return normalized
}

func filterOrders(orders []models.Order, userID string) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.UserID == userID {
			out = append(out, order.Clone())
		}
	}
	return out
}
