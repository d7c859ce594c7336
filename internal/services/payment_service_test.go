package services_test

import (
	"context"
	"testing"

	"laundrypoint/internal/models"
	"laundrypoint/internal/repositories"
	"laundrypoint/internal/services"

	"github.com/stretchr/testify/assert"
)

func testPaymentConfig() services.PaymentConfig {
	return services.PaymentConfig{
		RazorpayKeyID: "rzp_test_key",
		Currency:      "INR",
		MerchantName:  "LaundryPoint",
		UPIPayeeVPA:   "laundrypoint@upi",
		UPIPayeeName:  "LaundryPoint",
	}
}

// placeTestOrder creates a pending unpaid order worth 85.0.
func placeTestOrder(t *testing.T, repo repositories.OrderRepository) *models.Order {
	t.Helper()
	orderService := services.NewOrderService(repo, nil)
	order, err := orderService.PlaceOrder(context.Background(), validComposeRequest())
	assert.NoError(t, err)
	return order
}

func TestPaymentService_StartCheckout(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := placeTestOrder(t, repo)
	paymentService := services.NewPaymentService(repo, nil, testPaymentConfig())

	session, err := paymentService.StartCheckout(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, "rzp_test_key", session.KeyID)
	assert.Equal(t, int64(8500), session.Amount) // 85.0 rupees in paise
	assert.Equal(t, "INR", session.Currency)
	assert.Equal(t, order.ID, session.OrderRef)
	assert.Equal(t, "Asha Rao", session.Prefill.Name)
	assert.Equal(t, "9876543210", session.Prefill.Phone)
}

func TestPaymentService_StartCheckoutUnknownOrder(t *testing.T) {
	paymentService := services.NewPaymentService(repositories.NewMockOrderRepository(), nil, testPaymentConfig())

	_, err := paymentService.StartCheckout(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestPaymentService_CheckoutInFlightGuard(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := placeTestOrder(t, repo)
	paymentService := services.NewPaymentService(repo, nil, testPaymentConfig())

	_, err := paymentService.StartCheckout(context.Background(), order.ID)
	assert.NoError(t, err)

	// A second attempt for the same order while one is open is rejected
	_, err = paymentService.StartCheckout(context.Background(), order.ID)
	assert.ErrorIs(t, err, services.ErrPaymentInProgress)

	// A different order is unaffected
	other := placeTestOrder(t, repo)
	_, err = paymentService.StartCheckout(context.Background(), other.ID)
	assert.NoError(t, err)

	// Any result, even a dismissal, releases the guard
	_, err = paymentService.HandleCheckoutResult(context.Background(), order.ID, services.CheckoutResult{
		Type: services.ResultDismissed,
	})
	assert.NoError(t, err)
	_, err = paymentService.StartCheckout(context.Background(), order.ID)
	assert.NoError(t, err)
}

func TestPaymentService_SuccessMarksPaidAndPickedUp(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := placeTestOrder(t, repo)
	paymentService := services.NewPaymentService(repo, nil, testPaymentConfig())

	_, err := paymentService.StartCheckout(context.Background(), order.ID)
	assert.NoError(t, err)

	outcome, err := paymentService.HandleCheckoutResult(context.Background(), order.ID, services.CheckoutResult{
		Type:      services.ResultSuccess,
		PaymentID: "pay_123",
	})
	assert.NoError(t, err)
	assert.True(t, outcome.Verified)
	assert.Equal(t, "pay_123", outcome.Order.PaymentID)
	assert.Equal(t, models.PaymentPaid, outcome.Order.PaymentStatus)
	assert.Equal(t, models.StatusPickedUp, outcome.Order.Status)
	assert.NotNil(t, outcome.Order.PaidAt)

	// The mutation is visible to any subsequent read
	stored, err := repo.FindByID(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, "pay_123", stored.PaymentID)
}

func TestPaymentService_DuplicateSuccessIsNoOp(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := placeTestOrder(t, repo)
	paymentService := services.NewPaymentService(repo, nil, testPaymentConfig())

	success := services.CheckoutResult{Type: services.ResultSuccess, PaymentID: "pay_123"}
	_, err := paymentService.HandleCheckoutResult(context.Background(), order.ID, success)
	assert.NoError(t, err)

	first, err := repo.FindByID(context.Background(), order.ID)
	assert.NoError(t, err)

	// A replayed success message changes nothing, not even the timestamp
	outcome, err := paymentService.HandleCheckoutResult(context.Background(), order.ID, services.CheckoutResult{
		Type:      services.ResultSuccess,
		PaymentID: "pay_456",
	})
	assert.NoError(t, err)
	assert.True(t, outcome.Verified)

	second, err := repo.FindByID(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, "pay_123", second.PaymentID)
	assert.Equal(t, first.PaidAt, second.PaidAt)
}

func TestPaymentService_FailedAndDismissedMutateNothing(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := placeTestOrder(t, repo)
	paymentService := services.NewPaymentService(repo, nil, testPaymentConfig())

	outcome, err := paymentService.HandleCheckoutResult(context.Background(), order.ID, services.CheckoutResult{
		Type:   services.ResultFailed,
		Reason: "card declined",
	})
	assert.NoError(t, err)
	assert.False(t, outcome.Verified)
	assert.Contains(t, outcome.Note, "card declined")

	outcome, err = paymentService.HandleCheckoutResult(context.Background(), order.ID, services.CheckoutResult{
		Type: services.ResultDismissed,
	})
	assert.NoError(t, err)
	assert.False(t, outcome.Verified)

	stored, err := repo.FindByID(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentUnpaid, stored.PaymentStatus)
	assert.Empty(t, stored.PaymentID)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Nil(t, stored.PaidAt)
}

func TestPaymentService_UnknownResultRejected(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := placeTestOrder(t, repo)
	paymentService := services.NewPaymentService(repo, nil, testPaymentConfig())

	_, err := paymentService.HandleCheckoutResult(context.Background(), order.ID, services.CheckoutResult{
		Type: "exploded",
	})
	assert.ErrorIs(t, err, services.ErrUnknownResult)

	// A success with no payment ID is equally unusable
	_, err = paymentService.HandleCheckoutResult(context.Background(), order.ID, services.CheckoutResult{
		Type: services.ResultSuccess,
	})
	assert.ErrorIs(t, err, services.ErrUnknownResult)
}

func TestPaymentService_CheckoutAlreadyPaidOrder(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := placeTestOrder(t, repo)
	paymentService := services.NewPaymentService(repo, nil, testPaymentConfig())

	_, err := paymentService.HandleCheckoutResult(context.Background(), order.ID, services.CheckoutResult{
		Type:      services.ResultSuccess,
		PaymentID: "pay_123",
	})
	assert.NoError(t, err)

	_, err = paymentService.StartCheckout(context.Background(), order.ID)
	assert.ErrorIs(t, err, services.ErrOrderAlreadyPaid)
}

func TestPaymentService_WalletLinkNeverMarksPaid(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := placeTestOrder(t, repo)
	paymentService := services.NewPaymentService(repo, nil, testPaymentConfig())

	outcome, link, err := paymentService.BuildWalletLink(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.False(t, outcome.Verified)
	assert.Equal(t, "payment pending confirmation", outcome.Note)
	assert.Contains(t, link, "upi://pay?")
	assert.Contains(t, link, "pa=laundrypoint%40upi")
	assert.Contains(t, link, "am=85.00")
	assert.Contains(t, link, "cu=INR")

	// The hand-off is fire-and-forget: the order stays unpaid
	stored, err := repo.FindByID(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentUnpaid, stored.PaymentStatus)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestPaymentService_WalletLinkPaidOrderRejected(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := placeTestOrder(t, repo)
	paymentService := services.NewPaymentService(repo, nil, testPaymentConfig())

	_, err := paymentService.HandleCheckoutResult(context.Background(), order.ID, services.CheckoutResult{
		Type:      services.ResultSuccess,
		PaymentID: "pay_123",
	})
	assert.NoError(t, err)

	_, _, err = paymentService.BuildWalletLink(context.Background(), order.ID)
	assert.ErrorIs(t, err, services.ErrOrderAlreadyPaid)
}
