package repositories

import (
	"sort"
	"sync"
	"time"

	"laundrio/internal/apperrors"
	"laundrio/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It mirrors the persistent repository's contracts (recency ordering and
// versioned saves) so service tests exercise the same behavior.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.Version == 0 {
		order.Version = 1
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFoundf("Order not found.")
	}
	return &order, nil
}

// GetByUser returns all orders for userID, most recent first.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sortByCreatedAtDesc(orders)
	return orders, nil
}

// GetAll returns all orders, most recent first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, order)
	}
	sortByCreatedAtDesc(orders)
	return orders, nil
}

// Save persists a mutation, enforcing the version compare-and-swap.
func (r *MockOrderRepository) Save(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return apperrors.NotFoundf("Order not found.")
	}
	if stored.Version != order.Version {
		return apperrors.Conflictf("Order %s was modified concurrently, please retry.", order.ID)
	}
	order.Version++
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

func sortByCreatedAtDesc(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
