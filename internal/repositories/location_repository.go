package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"laundrypoint/internal/models"
	"laundrypoint/pkg/kvstore"
)

const recentLocationsKey = "recentLocations"

// maxRecentLocations caps the recent-locations cache.
const maxRecentLocations = 8

// LocationRepository defines the interface for the recent-pickup-location
// cache.
type LocationRepository interface {
	Recent(ctx context.Context) ([]models.SavedLocation, error)
	SaveRecent(ctx context.Context, location models.SavedLocation) error
}

// KVLocationRepository stores recently selected pickup locations as one
// JSON array under the "recentLocations" key, most recent first.
type KVLocationRepository struct {
	store kvstore.Store
}

// NewKVLocationRepository creates a location repository over the given
// store.
func NewKVLocationRepository(store kvstore.Store) *KVLocationRepository {
	return &KVLocationRepository{store: store}
}

// Recent returns the cached locations, most recent first.
func (r *KVLocationRepository) Recent(ctx context.Context) ([]models.SavedLocation, error) {
	raw, err := r.store.Get(ctx, recentLocationsKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read recent locations: %w", err)
	}

	// A nil slice after a successful unmarshal means the blob was "null",
	// which is valid JSON but not an array.
	var locations []models.SavedLocation
	if err := json.Unmarshal([]byte(raw), &locations); err != nil || locations == nil {
		if err != nil {
			log.Printf("Invalid recent locations blob, clearing: %v", err)
		} else {
			log.Printf("Recent locations blob is not an array, clearing")
		}
		if delErr := r.store.Delete(ctx, recentLocationsKey); delErr != nil {
			log.Printf("Failed to clear invalid recent locations blob: %v", delErr)
		}
		return nil, nil
	}
	return locations, nil
}

// SaveRecent pushes a location to the front of the cache, deduplicating by
// address and keeping at most eight entries.
func (r *KVLocationRepository) SaveRecent(ctx context.Context, location models.SavedLocation) error {
	locations, err := r.Recent(ctx)
	if err != nil {
		return err
	}

	updated := []models.SavedLocation{location}
	for _, l := range locations {
		if l.Address == location.Address {
			continue
		}
		updated = append(updated, l)
	}
	if len(updated) > maxRecentLocations {
		updated = updated[:maxRecentLocations]
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to marshal recent locations: %w", err)
	}
	if err := r.store.Set(ctx, recentLocationsKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write recent locations: %w", err)
	}
	return nil
}
