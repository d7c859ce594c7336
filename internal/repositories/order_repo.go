package repositories

import (
	"context"
	"errors"

	"laundrypoint/internal/models"
)

// ErrOrderNotFound is returned when an order ID is not in the store.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order persistence. Orders are
// append-only; Update applies a bounded mutation (status, payment fields)
// to one existing order.
type OrderRepository interface {
	List(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Append(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, id string, mutate func(*models.Order) error) (*models.Order, error)
}
