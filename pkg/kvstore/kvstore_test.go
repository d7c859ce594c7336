package kvstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"laundrypoint/pkg/kvstore"
)

// storeUnderTest runs the same contract against every Store implementation.
func storeUnderTest(t *testing.T, store kvstore.Store) {
	t.Helper()
	ctx := context.Background()

	// Missing key
	_, err := store.Get(ctx, "orders")
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

	// Set then get
	assert.NoError(t, store.Set(ctx, "orders", `[{"id":"1001"}]`))
	value, err := store.Get(ctx, "orders")
	assert.NoError(t, err)
	assert.Equal(t, `[{"id":"1001"}]`, value)

	// Set replaces
	assert.NoError(t, store.Set(ctx, "orders", "[]"))
	value, err = store.Get(ctx, "orders")
	assert.NoError(t, err)
	assert.Equal(t, "[]", value)

	// Keys are independent
	assert.NoError(t, store.Set(ctx, "userProfile", `{"name":"Asha"}`))
	value, err = store.Get(ctx, "orders")
	assert.NoError(t, err)
	assert.Equal(t, "[]", value)

	// Delete, including deleting an absent key
	assert.NoError(t, store.Delete(ctx, "orders"))
	_, err = store.Get(ctx, "orders")
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)
	assert.NoError(t, store.Delete(ctx, "orders"))
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, kvstore.NewMemory())
}

func TestGormStoreSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	store, err := kvstore.NewGormStore(db)
	assert.NoError(t, err)
	storeUnderTest(t, store)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := kvstore.Open("oracle", "dsn")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported kvstore driver")
}
