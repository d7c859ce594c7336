package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"laundrypoint/internal/models"
	"laundrypoint/pkg/kvstore"
)

const ordersKey = "orders"

// KVOrderRepository stores the full order list as one JSON array under the
// "orders" key of the key-value store.
//
// Every write is a read-modify-write of the whole blob without a
// cross-process lock. This is a known limitation: it is only safe with a
// single active writer (one app instance). Deployments with concurrent
// writers need a transactional append (version counter or a real database)
// instead.
type KVOrderRepository struct {
	store kvstore.Store
}

// NewKVOrderRepository creates an order repository over the given store.
func NewKVOrderRepository(store kvstore.Store) *KVOrderRepository {
	return &KVOrderRepository{store: store}
}

// load reads and parses the stored order list. A missing key yields an
// empty list. A blob that is not valid JSON or not an array is treated as
// empty and the bad key is deleted, so one corrupt write cannot keep a
// screen failing on every read.
func (r *KVOrderRepository) load(ctx context.Context) ([]models.Order, error) {
	raw, err := r.store.Get(ctx, ordersKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	// A nil slice after a successful unmarshal means the blob was "null",
	// which is valid JSON but not an array.
	var orders []models.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil || orders == nil {
		if err != nil {
			log.Printf("Invalid orders blob, clearing: %v", err)
		} else {
			log.Printf("Orders blob is not an array, clearing")
		}
		if delErr := r.store.Delete(ctx, ordersKey); delErr != nil {
			log.Printf("Failed to clear invalid orders blob: %v", delErr)
		}
		return nil, nil
	}
	return orders, nil
}

func (r *KVOrderRepository) save(ctx context.Context, orders []models.Order) error {
	raw, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to marshal orders: %w", err)
	}
	if err := r.store.Set(ctx, ordersKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write orders: %w", err)
	}
	return nil
}

// List returns all orders, newest first by creation time. Ties keep their
// stored order (new orders are prepended on append).
func (r *KVOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	orders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// FindByID returns the order with the given ID or ErrOrderNotFound.
func (r *KVOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	orders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			order := orders[i]
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Append adds a new order at the head of the stored list.
func (r *KVOrderRepository) Append(ctx context.Context, order *models.Order) error {
	orders, err := r.load(ctx)
	if err != nil {
		return err
	}
	updated := append([]models.Order{*order}, orders...)
	return r.save(ctx, updated)
}

// Update locates the order by ID, applies the mutator to a copy, rewrites
// the list, and returns the updated order. The list is left untouched if
// the mutator returns an error.
func (r *KVOrderRepository) Update(ctx context.Context, id string, mutate func(*models.Order) error) (*models.Order, error) {
	orders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		updated := orders[i]
		if err := mutate(&updated); err != nil {
			return nil, err
		}
		orders[i] = updated
		if err := r.save(ctx, orders); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, ErrOrderNotFound
}
