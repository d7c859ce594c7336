package repositories_test

import (
	"context"
	"testing"

	"laundrypoint/internal/models"
	"laundrypoint/internal/repositories"

	"github.com/stretchr/testify/assert"

	"laundrypoint/pkg/kvstore"
)

func testUser() *models.User {
	return &models.User{
		ID:       "user-1",
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "$2a$10$hashhashhashhashhashha",
		Mobile:   "9876543210",
		Address:  "12 MG Road, Bengaluru",
	}
}

func TestKVUserRepository_CreateAndLookup(t *testing.T) {
	repo := repositories.NewKVUserRepository(kvstore.NewMemory())
	assert.NoError(t, repo.Create(context.Background(), testUser()))

	// Email lookup is case-insensitive
	user, err := repo.GetByEmail(context.Background(), "ASHA@example.COM")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	user, err = repo.GetByID(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)

	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	_, err = repo.GetByID(context.Background(), "user-2")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestKVUserRepository_SessionRoundTrip(t *testing.T) {
	store := kvstore.NewMemory()
	repo := repositories.NewKVUserRepository(store)

	assert.NoError(t, repo.SaveSession(context.Background(), testUser()))

	session, err := repo.LoadSession(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "user-1", session.ID)
	// The session blob never carries the credential hash
	assert.Empty(t, session.Password)

	assert.NoError(t, repo.ClearSession(context.Background()))
	session, err = repo.LoadSession(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, session)
}

func TestKVUserRepository_CorruptSessionTreatedAsSignedOut(t *testing.T) {
	for _, blob := range []string{"not json", "{}", `{"name":"ghost"}`} {
		store := kvstore.NewMemory()
		assert.NoError(t, store.Set(context.Background(), "auth_user", blob))
		repo := repositories.NewKVUserRepository(store)

		session, err := repo.LoadSession(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, session)

		// The bad blob was cleared
		_, err = store.Get(context.Background(), "auth_user")
		assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)
	}
}

func TestKVUserRepository_CorruptUsersBlobSelfHeals(t *testing.T) {
	for _, blob := range []string{"not json", "null", "{}"} {
		store := kvstore.NewMemory()
		assert.NoError(t, store.Set(context.Background(), "app_users", blob))
		repo := repositories.NewKVUserRepository(store)

		_, err := repo.GetByEmail(context.Background(), "asha@example.com")
		assert.ErrorIs(t, err, repositories.ErrUserNotFound)

		// The bad blob was cleared
		_, err = store.Get(context.Background(), "app_users")
		assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

		// Registration works again after the heal
		assert.NoError(t, repo.Create(context.Background(), testUser()))
		user, err := repo.GetByEmail(context.Background(), "asha@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
	}
}
