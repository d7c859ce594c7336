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

const profileKey = "userProfile"

// ProfileRepository defines the interface for the editable profile blob.
type ProfileRepository interface {
	Get(ctx context.Context) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
	Clear(ctx context.Context) error
}

// KVProfileRepository stores the profile as one JSON object under the
// "userProfile" key.
type KVProfileRepository struct {
	store kvstore.Store
}

// NewKVProfileRepository creates a profile repository over the given store.
func NewKVProfileRepository(store kvstore.Store) *KVProfileRepository {
	return &KVProfileRepository{store: store}
}

// Get returns the saved profile, or nil when none has been saved. A
// corrupt blob is cleared and treated as absent.
func (r *KVProfileRepository) Get(ctx context.Context) (*models.Profile, error) {
	raw, err := r.store.Get(ctx, profileKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		log.Printf("Invalid profile blob, clearing: %v", err)
		if delErr := r.store.Delete(ctx, profileKey); delErr != nil {
			log.Printf("Failed to clear invalid profile blob: %v", delErr)
		}
		return nil, nil
	}
	return &profile, nil
}

// Save overwrites the profile blob.
func (r *KVProfileRepository) Save(ctx context.Context, profile *models.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := r.store.Set(ctx, profileKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Clear removes the profile blob (used on sign-out).
func (r *KVProfileRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, profileKey)
}
