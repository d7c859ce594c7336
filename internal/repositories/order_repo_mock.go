package repositories

import (
	"context"
	"sort"
	"sync"

	"laundrypoint/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{}
}

// List returns all orders, newest first.
func (r *MockOrderRepository) List(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, len(r.orders))
	copy(orders, r.orders)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// FindByID returns the order with the given ID or ErrOrderNotFound.
func (r *MockOrderRepository) FindByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.orders {
		if r.orders[i].ID == id {
			order := r.orders[i]
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Append adds a new order at the head of the list.
func (r *MockOrderRepository) Append(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = append([]models.Order{*order}, r.orders...)
	return nil
}

// Update applies the mutator to the order with the given ID.
func (r *MockOrderRepository) Update(_ context.Context, id string, mutate func(*models.Order) error) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID != id {
			continue
		}
		updated := r.orders[i]
		if err := mutate(&updated); err != nil {
			return nil, err
		}
		r.orders[i] = updated
		return &updated, nil
	}
	return nil, ErrOrderNotFound
}
