package repositories

import (
	"context"
	"errors"

	"laundrypoint/internal/models"
)

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for account and session storage.
// The session is a single current-user pointer persisted under its own
// key, loaded once at startup.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SaveSession(ctx context.Context, user *models.User) error
	LoadSession(ctx context.Context) (*models.User, error)
	ClearSession(ctx context.Context) error
}
