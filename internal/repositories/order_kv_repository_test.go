package repositories_test

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"laundrypoint/internal/models"
	"laundrypoint/internal/repositories"

	"github.com/stretchr/testify/assert"

	"laundrypoint/pkg/kvstore"
)

// TestMain is used to setup the test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func testOrder(id string, createdAt time.Time) *models.Order {
	return &models.Order{
		ID:           id,
		UserID:       "user-1",
		CustomerName: "Asha Rao",
		Mobile:       "9876543210",
		Address:      "12 MG Road, Bengaluru",
		CartItems: []models.CartItem{
			{ServiceID: "svc-1", ServiceName: "Shirts", Price: 30, Quantity: 2},
		},
		TotalAmount:   60,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		CreatedAt:     createdAt,
	}
}

func TestKVOrderRepository_EmptyStore(t *testing.T) {
	repo := repositories.NewKVOrderRepository(kvstore.NewMemory())

	orders, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, orders)

	_, err = repo.FindByID(context.Background(), "123")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestKVOrderRepository_AppendAndFind(t *testing.T) {
	repo := repositories.NewKVOrderRepository(kvstore.NewMemory())

	order := testOrder("1001", time.Now())
	assert.NoError(t, repo.Append(context.Background(), order))

	found, err := repo.FindByID(context.Background(), "1001")
	assert.NoError(t, err)
	assert.Equal(t, "Asha Rao", found.CustomerName)
	assert.Equal(t, 60.0, found.TotalAmount)
	assert.Len(t, found.CartItems, 1)
}

func TestKVOrderRepository_ListNewestFirst(t *testing.T) {
	repo := repositories.NewKVOrderRepository(kvstore.NewMemory())
	base := time.Now()

	assert.NoError(t, repo.Append(context.Background(), testOrder("1001", base)))
	assert.NoError(t, repo.Append(context.Background(), testOrder("1002", base.Add(time.Second))))
	assert.NoError(t, repo.Append(context.Background(), testOrder("1003", base.Add(2*time.Second))))

	orders, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.Equal(t, "1003", orders[0].ID)
	assert.Equal(t, "1002", orders[1].ID)
	assert.Equal(t, "1001", orders[2].ID)
}

func TestKVOrderRepository_CorruptBlobSelfHeals(t *testing.T) {
	for _, blob := range []string{"not json", "null", "{}", `{"orders": []}`} {
		store := kvstore.NewMemory()
		assert.NoError(t, store.Set(context.Background(), "orders", blob))
		repo := repositories.NewKVOrderRepository(store)

		// The bad blob reads as an empty list, not an error
		orders, err := repo.List(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, orders)

		// And the key was cleared so the next write starts fresh
		_, err = store.Get(context.Background(), "orders")
		assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

		assert.NoError(t, repo.Append(context.Background(), testOrder("1001", time.Now())))
		orders, err = repo.List(context.Background())
		assert.NoError(t, err)
		assert.Len(t, orders, 1)
	}
}

func TestKVOrderRepository_Update(t *testing.T) {
	repo := repositories.NewKVOrderRepository(kvstore.NewMemory())
	assert.NoError(t, repo.Append(context.Background(), testOrder("1001", time.Now())))

	updated, err := repo.Update(context.Background(), "1001", func(o *models.Order) error {
		o.Status = models.StatusPickedUp
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPickedUp, updated.Status)

	stored, err := repo.FindByID(context.Background(), "1001")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPickedUp, stored.Status)
}

func TestKVOrderRepository_UpdateMutatorErrorLeavesStoreUntouched(t *testing.T) {
	repo := repositories.NewKVOrderRepository(kvstore.NewMemory())
	assert.NoError(t, repo.Append(context.Background(), testOrder("1001", time.Now())))

	_, err := repo.Update(context.Background(), "1001", func(o *models.Order) error {
		o.Status = models.StatusDelivered
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	stored, err := repo.FindByID(context.Background(), "1001")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestKVOrderRepository_UpdateUnknownOrder(t *testing.T) {
	repo := repositories.NewKVOrderRepository(kvstore.NewMemory())

	_, err := repo.Update(context.Background(), "missing", func(*models.Order) error { return nil })
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}
