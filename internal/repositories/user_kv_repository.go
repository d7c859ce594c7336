package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"laundrypoint/internal/models"
	"laundrypoint/pkg/kvstore"
)

const (
	usersKey   = "app_users"
	sessionKey = "auth_user"
)

// KVUserRepository stores registered accounts as one JSON array under
// "app_users" and the current session under "auth_user".
type KVUserRepository struct {
	store kvstore.Store
}

// NewKVUserRepository creates a user repository over the given store.
func NewKVUserRepository(store kvstore.Store) *KVUserRepository {
	return &KVUserRepository{store: store}
}

func (r *KVUserRepository) load(ctx context.Context) ([]models.User, error) {
	raw, err := r.store.Get(ctx, usersKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	// A nil slice after a successful unmarshal means the blob was "null",
	// which is valid JSON but not an array.
	var users []models.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil || users == nil {
		if err != nil {
			log.Printf("Invalid users blob, clearing: %v", err)
		} else {
			log.Printf("Users blob is not an array, clearing")
		}
		if delErr := r.store.Delete(ctx, usersKey); delErr != nil {
			log.Printf("Failed to clear invalid users blob: %v", delErr)
		}
		return nil, nil
	}
	return users, nil
}

func (r *KVUserRepository) save(ctx context.Context, users []models.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}
	if err := r.store.Set(ctx, usersKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write users: %w", err)
	}
	return nil
}

// Create appends a new account to the credential store.
func (r *KVUserRepository) Create(ctx context.Context, user *models.User) error {
	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, append(users, *user))
}

// GetByEmail returns the account with the given email. Comparison is
// case-insensitive.
func (r *KVUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			user := users[i]
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByID returns the account with the given ID.
func (r *KVUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			user := users[i]
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

// SaveSession persists the current user pointer. The password hash is not
// written into the session blob.
func (r *KVUserRepository) SaveSession(ctx context.Context, user *models.User) error {
	session := *user
	session.Password = ""
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.store.Set(ctx, sessionKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// LoadSession returns the persisted current user, or nil if signed out.
// A corrupt session blob is cleared and treated as signed out.
func (r *KVUserRepository) LoadSession(ctx context.Context) (*models.User, error) {
	raw, err := r.store.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		if err != nil {
			log.Printf("Invalid session blob, clearing: %v", err)
		} else {
			log.Printf("Session blob has no user ID, clearing")
		}
		if delErr := r.store.Delete(ctx, sessionKey); delErr != nil {
			log.Printf("Failed to clear invalid session blob: %v", delErr)
		}
		return nil, nil
	}
	return &user, nil
}

// ClearSession removes the persisted session pointer.
func (r *KVUserRepository) ClearSession(ctx context.Context) error {
	return r.store.Delete(ctx, sessionKey)
}
