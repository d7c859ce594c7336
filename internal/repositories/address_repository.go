package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"laundrypoint/internal/models"
	"laundrypoint/pkg/kvstore"

	"github.com/google/uuid"
)

// ErrAddressNotFound is returned when an address ID is not in the store.
var ErrAddressNotFound = errors.New("address not found")

const addressesKey = "userAddresses"

// AddressRepository defines the interface for saved delivery addresses.
type AddressRepository interface {
	List(ctx context.Context) ([]models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id string) error
	SetDefault(ctx context.Context, id string) (*models.Address, error)
}

// KVAddressRepository stores addresses as one JSON array under the
// "userAddresses" key.
type KVAddressRepository struct {
	store kvstore.Store
}

// NewKVAddressRepository creates an address repository over the given store.
func NewKVAddressRepository(store kvstore.Store) *KVAddressRepository {
	return &KVAddressRepository{store: store}
}

func (r *KVAddressRepository) load(ctx context.Context) ([]models.Address, error) {
	raw, err := r.store.Get(ctx, addressesKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read addresses: %w", err)
	}

	// A nil slice after a successful unmarshal means the blob was "null",
	// which is valid JSON but not an array.
	var addresses []models.Address
	if err := json.Unmarshal([]byte(raw), &addresses); err != nil || addresses == nil {
		if err != nil {
			log.Printf("Invalid addresses blob, clearing: %v", err)
		} else {
			log.Printf("Addresses blob is not an array, clearing")
		}
		if delErr := r.store.Delete(ctx, addressesKey); delErr != nil {
			log.Printf("Failed to clear invalid addresses blob: %v", delErr)
		}
		return nil, nil
	}
	return addresses, nil
}

func (r *KVAddressRepository) save(ctx context.Context, addresses []models.Address) error {
	raw, err := json.Marshal(addresses)
	if err != nil {
		return fmt.Errorf("failed to marshal addresses: %w", err)
	}
	if err := r.store.Set(ctx, addressesKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write addresses: %w", err)
	}
	return nil
}

// List returns all saved addresses.
func (r *KVAddressRepository) List(ctx context.Context) ([]models.Address, error) {
	return r.load(ctx)
}

// Create saves a new address. If it is marked default, or it is the first
// address, any previous default is cleared in the same write.
func (r *KVAddressRepository) Create(ctx context.Context, address *models.Address) error {
	addresses, err := r.load(ctx)
	if err != nil {
		return err
	}
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	if len(addresses) == 0 {
		address.IsDefault = true
	}
	if address.IsDefault {
		for i := range addresses {
			addresses[i].IsDefault = false
		}
	}
	return r.save(ctx, append(addresses, *address))
}

// Delete removes the address with the given ID.
func (r *KVAddressRepository) Delete(ctx context.Context, id string) error {
	addresses, err := r.load(ctx)
	if err != nil {
		return err
	}
	remaining := addresses[:0]
	found := false
	for _, a := range addresses {
		if a.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, a)
	}
	if !found {
		return ErrAddressNotFound
	}
	return r.save(ctx, remaining)
}

// SetDefault marks the given address as the default. The previous default
// is cleared within the same read-modify-write, so at most one address is
// ever default.
func (r *KVAddressRepository) SetDefault(ctx context.Context, id string) (*models.Address, error) {
	addresses, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	var updated *models.Address
	for i := range addresses {
		addresses[i].IsDefault = addresses[i].ID == id
		if addresses[i].IsDefault {
			updated = &addresses[i]
		}
	}
	if updated == nil {
		return nil, ErrAddressNotFound
	}
	if err := r.save(ctx, addresses); err != nil {
		return nil, err
	}
	result := *updated
	return &result, nil
}
