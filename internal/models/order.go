package models

import "time"

// OrderStatus is the lifecycle state of an order. Statuses form a linear
// chain; Cancelled is terminal and reachable from any non-terminal state.
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusPickedUp       OrderStatus = "Picked Up"
	StatusInProgress     OrderStatus = "In Progress"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// statusChain holds the forward-only ordering of non-terminal statuses.
var statusChain = []OrderStatus{
	StatusPending,
	StatusPickedUp,
	StatusInProgress,
	StatusOutForDelivery,
	StatusDelivered,
}

// Rank returns the position of the status in the chain. Cancelled and
// unknown statuses have no rank.
func (s OrderStatus) Rank() (int, bool) {
	for i, st := range statusChain {
		if st == s {
			return i, true
		}
	}
	return 0, false
}

// IsValid reports whether s is one of the known statuses.
func (s OrderStatus) IsValid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := s.Rank()
	return ok
}

// IsTerminal reports whether no further transition is allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is legal. Status
// only moves forward along the chain, except that any non-terminal status
// may move to Cancelled.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok := s.Rank()
	if !ok {
		return false
	}
	to, ok := next.Rank()
	if !ok {
		return false
	}
	return to > from
}

// PaymentStatus marks whether an order has a verified payment.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// CartItem is one catalog service plus the chosen quantity within a cart.
// Name and price are snapshots taken at selection time; the catalog may
// change between cart build and order submit.
type CartItem struct {
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"` // Price at the time of selection
	Quantity    int     `json:"quantity"`
}

// Subtotal is the line amount for this item.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PickupSelection is the pickup location chosen in the location picker,
// consumed exactly once when composing an order.
type PickupSelection struct {
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Order is a placed laundry order. Orders are created once, never deleted,
// and only mutated in bounded ways (status and payment fields).
type Order struct {
	ID                string        `json:"id"`
	UserID            string        `json:"userId"`
	CustomerName      string        `json:"customerName"`
	Mobile            string        `json:"mobile"`
	Address           string        `json:"address"`
	PickupAddress     string        `json:"pickupAddress"`
	PickupCoordinates *Coordinates  `json:"pickupCoordinates,omitempty"`
	Service           *Service      `json:"service,omitempty"`
	ServiceCenter     *Shop         `json:"serviceCenter,omitempty"`
	CartItems         []CartItem    `json:"cartItems"`
	TotalAmount       float64       `json:"totalAmount"`
	Media             MediaEvidence `json:"media"`
	Status            OrderStatus   `json:"status"`
	PaymentID         string        `json:"paymentId,omitempty"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	PaidAt            *time.Time    `json:"paidAt,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// TrackingStep is one row of the linear progress view shown on the order
// detail screen.
type TrackingStep struct {
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// TrackingSteps derives the display progress for an order. A step is
// complete iff the order's status rank has reached that step's rank.
// Cancelled orders only show the placed step.
func (o *Order) TrackingSteps() []TrackingStep {
	rank, ok := o.Status.Rank()
	if !ok {
		rank = 0
	}
	steps := []TrackingStep{{Label: "Order Placed", Completed: true}}
	labels := []string{"Picked Up", "In Progress", "Out for Delivery", "Delivered"}
	for i, label := range labels {
		steps = append(steps, TrackingStep{Label: label, Completed: rank >= i+1})
	}
	return steps
}
