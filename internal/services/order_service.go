package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"laundrypoint/internal/models"
	"laundrypoint/internal/repositories"
	"laundrypoint/pkg/events"
)

// Validation errors returned by Compose, in the order they are checked.
// Each maps to a specific corrective prompt on the confirm screen, so
// callers must be able to branch on the exact kind.
var (
	ErrEmptyCart                 = errors.New("cart is empty")
	ErrMissingServiceCenter      = errors.New("no service center selected")
	ErrUnauthenticated           = errors.New("sign in required")
	ErrIncompleteDeliveryDetails = errors.New("delivery details incomplete")
	ErrMissingPickupLocation     = errors.New("no pickup location selected")
	ErrMissingMedia              = errors.New("no item media selected")
	ErrEmptyMediaPayload         = errors.New("item media is empty")
)

// Transition errors leave order state unchanged.
var (
	ErrIllegalStatusTransition = errors.New("illegal status transition")
	ErrUnknownStatus           = errors.New("unknown order status")
)

// DeliveryDetails is the contact information captured on the confirm
// screen.
type DeliveryDetails struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
}

// ComposeRequest carries everything the confirm screen collected. It is
// passed in-process; nothing is round-tripped through serialized route
// params.
type ComposeRequest struct {
	Items         []models.CartItem
	Delivery      DeliveryDetails
	Pickup        models.PickupSelection
	Media         models.MediaEvidence
	Service       *models.Service
	ServiceCenter *models.Shop
	User          *models.User
}

// OrderService handles order composition, placement, reads, and status
// transitions.
type OrderService struct {
	orders repositories.OrderRepository
	events *events.Client

	mu     sync.Mutex
	lastID int64
}

// NewOrderService creates a new OrderService. The events client may be
// nil, in which case event publication is skipped.
func NewOrderService(orders repositories.OrderRepository, eventsClient *events.Client) *OrderService {
	return &OrderService{
		orders: orders,
		events: eventsClient,
	}
}

// Compose validates the collected order input and returns an order draft.
// Checks fail fast in a fixed order so the screen can prompt for the first
// missing piece. The total is always recomputed from the cart lines; a
// total supplied by the caller is never trusted.
func (s *OrderService) Compose(req ComposeRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if req.ServiceCenter == nil {
		return nil, ErrMissingServiceCenter
	}
	if req.User == nil {
		// The screen must offer sign-in/sign-up here, not fail silently.
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.Delivery.Name) == "" ||
		strings.TrimSpace(req.Delivery.Mobile) == "" ||
		strings.TrimSpace(req.Delivery.Address) == "" {
		return nil, ErrIncompleteDeliveryDetails
	}
	if strings.TrimSpace(req.Pickup.Address) == "" {
		return nil, ErrMissingPickupLocation
	}
	if !req.Media.Selected() {
		return nil, ErrMissingMedia
	}
	if req.Media.Empty() {
		return nil, ErrEmptyMediaPayload
	}

	items := make([]models.CartItem, len(req.Items))
	copy(items, req.Items)

	var total float64
	for i := range items {
		total += items[i].Subtotal()
	}

	return &models.Order{
		UserID:            req.User.ID,
		CustomerName:      req.Delivery.Name,
		Mobile:            req.Delivery.Mobile,
		Address:           req.Delivery.Address,
		PickupAddress:     req.Pickup.Address,
		PickupCoordinates: req.Pickup.Coordinates,
		Service:           req.Service,
		ServiceCenter:     req.ServiceCenter,
		CartItems:         items,
		TotalAmount:       total,
		Media:             req.Media,
		Status:            models.StatusPending,
		PaymentStatus:     models.PaymentUnpaid,
	}, nil
}

// PlaceOrder composes and persists a new order, then publishes an
// order.created event if a broker is configured.
func (s *OrderService) PlaceOrder(ctx context.Context, req ComposeRequest) (*models.Order, error) {
	order, err := s.Compose(req)
	if err != nil {
		return nil, err
	}

	order.ID = s.nextOrderID()
	order.CreatedAt = time.Now()

	if err := s.orders.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.publish(events.OrderCreated, map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalAmount,
	})

	return order, nil
}

// nextOrderID returns a millisecond-timestamp ID. IDs are unique and
// monotonically increasing in creation order; two orders in the same
// millisecond get consecutive values.
func (s *OrderService) nextOrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// GetOrders returns all orders, newest first.
func (s *OrderService) GetOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

// GetOrdersForUser returns the given user's orders, newest first.
func (s *OrderService) GetOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	owned := orders[:0]
	for _, o := range orders {
		if o.UserID == userID {
			owned = append(owned, o)
		}
	}
	return owned, nil
}

// GetOrderByID retrieves a single order.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// UpdateOrderStatus moves an order forward along the status chain, or to
// Cancelled. Backward moves and moves out of a terminal state are rejected
// with ErrIllegalStatusTransition and leave the order unchanged. There is
// no background job advancing status; transitions are operator-driven or
// payment-driven.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}

	order, err := s.orders.Update(ctx, id, func(o *models.Order) error {
		if !o.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalStatusTransition, o.Status, status)
		}
		o.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.OrderStatusChanged, map[string]interface{}{
		"orderId": order.ID,
		"status":  order.Status,
	})
	return order, nil
}

// CancelOrder moves an order to the terminal Cancelled state.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.UpdateOrderStatus(ctx, id, models.StatusCancelled)
}

func (s *OrderService) publish(event string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(event, data); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
