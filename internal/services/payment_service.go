package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"sync"
	"time"

	"laundrypoint/internal/models"
	"laundrypoint/internal/repositories"
	"laundrypoint/pkg/events"

	"github.com/google/uuid"
)

// Reconciliation errors. Rejected operations leave order state unchanged.
var (
	ErrPaymentInProgress = errors.New("payment already in progress")
	ErrOrderAlreadyPaid  = errors.New("order already paid")
	ErrUnknownResult     = errors.New("unknown checkout result type")
)

// PaymentConfig carries the merchant identifiers for both payment paths.
type PaymentConfig struct {
	RazorpayKeyID string
	Currency      string
	MerchantName  string
	UPIPayeeVPA   string
	UPIPayeeName  string
}

// CheckoutSession is the request handed to the embedded checkout surface.
// Amount is in minor units (paise).
type CheckoutSession struct {
	SessionID string          `json:"sessionId"`
	KeyID     string          `json:"keyId"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	OrderRef  string          `json:"orderRef"`
	Name      string          `json:"name"`
	Prefill   CheckoutPrefill `json:"prefill"`
}

// CheckoutPrefill pre-populates the checkout form from the order.
type CheckoutPrefill struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`
}

// Checkout result types posted back by the embedded surface.
const (
	ResultSuccess   = "success"
	ResultFailed    = "failed"
	ResultDismissed = "dismissed"
)

// CheckoutResult is the outcome message from the embedded checkout.
type CheckoutResult struct {
	Type      string `json:"type"`
	PaymentID string `json:"paymentId,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// PaymentOutcome is the reconciler's answer. Only Verified outcomes (from
// the embedded checkout's message channel) ever change paymentStatus; the
// wallet deep link has no confirmation channel, so its orders stay visibly
// pending confirmation rather than silently paid.
type PaymentOutcome struct {
	Verified bool          `json:"verified"`
	Order    *models.Order `json:"order,omitempty"`
	Note     string        `json:"note,omitempty"`
}

// PaymentService drives the external payment capabilities to completion
// and applies the result to the matching order exactly once.
type PaymentService struct {
	orders repositories.OrderRepository
	events *events.Client
	cfg    PaymentConfig

	mu       sync.Mutex
	inFlight map[string]string // order ID -> checkout session ID
}

// NewPaymentService creates a new PaymentService. The events client may be
// nil.
func NewPaymentService(orders repositories.OrderRepository, eventsClient *events.Client, cfg PaymentConfig) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &PaymentService{
		orders:   orders,
		events:   eventsClient,
		cfg:      cfg,
		inFlight: make(map[string]string),
	}
}

// StartCheckout opens an embedded checkout session for an order. A second
// attempt while one is in flight for the same order is rejected, as is a
// checkout for an order that already carries a verified payment.
func (s *PaymentService) StartCheckout(ctx context.Context, orderID string) (*CheckoutSession, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentID != "" || order.PaymentStatus == models.PaymentPaid {
		return nil, ErrOrderAlreadyPaid
	}

	s.mu.Lock()
	if _, busy := s.inFlight[orderID]; busy {
		s.mu.Unlock()
		return nil, ErrPaymentInProgress
	}
	sessionID := uuid.New().String()
	s.inFlight[orderID] = sessionID
	s.mu.Unlock()

	return &CheckoutSession{
		SessionID: sessionID,
		KeyID:     s.cfg.RazorpayKeyID,
		Amount:    toMinorUnits(order.TotalAmount),
		Currency:  s.cfg.Currency,
		OrderRef:  order.ID,
		Name:      s.cfg.MerchantName,
		Prefill: CheckoutPrefill{
			Name:  order.CustomerName,
			Phone: order.Mobile,
		},
	}, nil
}

// HandleCheckoutResult applies the outcome posted by the embedded checkout.
// Success marks the order paid and moves it to Picked Up; the mutation is
// awaited to completion before returning, so any subsequent read observes
// the paid state. A duplicate success for an order that already carries a
// payment ID is a no-op, not a double-apply. Failed and dismissed results
// mutate nothing.
func (s *PaymentService) HandleCheckoutResult(ctx context.Context, orderID string, result CheckoutResult) (*PaymentOutcome, error) {
	defer s.clearInFlight(orderID)

	switch result.Type {
	case ResultSuccess:
		return s.applySuccess(ctx, orderID, result.PaymentID)
	case ResultFailed:
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return &PaymentOutcome{
			Verified: false,
			Order:    order,
			Note:     fmt.Sprintf("payment failed: %s", result.Reason),
		}, nil
	case ResultDismissed:
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return &PaymentOutcome{Verified: false, Order: order, Note: "checkout dismissed"}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResult, result.Type)
	}
}

func (s *PaymentService) applySuccess(ctx context.Context, orderID, paymentID string) (*PaymentOutcome, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("%w: success without payment id", ErrUnknownResult)
	}

	alreadyPaid := false
	order, err := s.orders.Update(ctx, orderID, func(o *models.Order) error {
		if o.PaymentID != "" {
			// Duplicate success message; keep the stored state as is.
			alreadyPaid = true
			return nil
		}
		now := time.Now()
		o.PaymentID = paymentID
		o.PaymentStatus = models.PaymentPaid
		o.PaidAt = &now
		if o.Status.CanTransitionTo(models.StatusPickedUp) {
			o.Status = models.StatusPickedUp
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyPaid {
		s.publish(events.PaymentCaptured, map[string]interface{}{
			"orderId":   order.ID,
			"paymentId": order.PaymentID,
			"amount":    order.TotalAmount,
		})
	}

	return &PaymentOutcome{Verified: true, Order: order}, nil
}

// BuildWalletLink constructs the UPI deep link for the wallet path. The
// handoff is fire-and-forget: there is no callback, so the order is NOT
// marked paid and stays "payment pending confirmation" until a verified
// signal arrives.
func (s *PaymentService) BuildWalletLink(ctx context.Context, orderID string) (*PaymentOutcome, string, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if order.PaymentID != "" || order.PaymentStatus == models.PaymentPaid {
		return nil, "", ErrOrderAlreadyPaid
	}

	query := url.Values{}
	query.Set("pa", s.cfg.UPIPayeeVPA)
	query.Set("pn", s.cfg.UPIPayeeName)
	query.Set("am", fmt.Sprintf("%.2f", order.TotalAmount))
	query.Set("cu", s.cfg.Currency)
	query.Set("tn", "Order "+order.ID)

	outcome := &PaymentOutcome{
		Verified: false,
		Order:    order,
		Note:     "payment pending confirmation",
	}
	return outcome, "upi://pay?" + query.Encode(), nil
}

func (s *PaymentService) clearInFlight(orderID string) {
	s.mu.Lock()
	delete(s.inFlight, orderID)
	s.mu.Unlock()
}

func (s *PaymentService) publish(event string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(event, data); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}

// toMinorUnits converts a rupee amount to paise.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
