package services

import (
	"sync"

	"laundrypoint/internal/models"
)

// Cart accumulates selected services and quantities for one in-progress
// order. It lives in memory only and is discarded if the user navigates
// away without confirming. Name and price are snapshotted from the catalog
// item at selection time.
type Cart struct {
	mu    sync.Mutex
	lines []models.CartItem
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// SetQuantity adjusts the line for the given service by delta. A line is
// created on the first positive adjustment; a line whose quantity drops to
// zero or below is removed entirely. A negative delta with no existing
// line is a no-op.
func (c *Cart) SetQuantity(service models.Service, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ServiceID != service.ID {
			continue
		}
		c.lines[i].Quantity += delta
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}

	if delta <= 0 {
		return
	}
	c.lines = append(c.lines, models.CartItem{
		ServiceID:   service.ID,
		ServiceName: service.Name,
		Price:       service.Price,
		Quantity:    delta,
	})
}

// GetQuantity returns the quantity selected for a service, 0 if absent.
func (c *Cart) GetQuantity(serviceID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ServiceID == serviceID {
			return c.lines[i].Quantity
		}
	}
	return 0
}

// Lines returns a snapshot copy of the cart lines.
func (c *Cart) Lines() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]models.CartItem, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Total is the running sum over all lines, recomputed on every call.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for i := range c.lines {
		total += c.lines[i].Subtotal()
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
}
