package models_test

import (
	"testing"

	"laundrypoint/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.StatusPending, models.StatusPickedUp, true},
		{models.StatusPending, models.StatusDelivered, true}, // skipping forward is legal
		{models.StatusPickedUp, models.StatusPending, false},
		{models.StatusInProgress, models.StatusInProgress, false},
		{models.StatusOutForDelivery, models.StatusDelivered, true},
		{models.StatusDelivered, models.StatusOutForDelivery, false},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusOutForDelivery, models.StatusCancelled, true},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusCancelled, false},
		{models.StatusPending, "Teleported", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.StatusPending, models.StatusPickedUp, models.StatusInProgress,
		models.StatusOutForDelivery, models.StatusDelivered, models.StatusCancelled,
	} {
		assert.True(t, s.IsValid(), "%s", s)
	}
	assert.False(t, models.OrderStatus("Teleported").IsValid())
	assert.False(t, models.OrderStatus("").IsValid())
}

func TestOrder_TrackingSteps(t *testing.T) {
	order := &models.Order{Status: models.StatusInProgress}

	steps := order.TrackingSteps()
	assert.Len(t, steps, 5)
	assert.Equal(t, "Order Placed", steps[0].Label)
	assert.True(t, steps[0].Completed)
	assert.True(t, steps[1].Completed)  // Picked Up
	assert.True(t, steps[2].Completed)  // In Progress
	assert.False(t, steps[3].Completed) // Out for Delivery
	assert.False(t, steps[4].Completed) // Delivered

	// A cancelled order only shows the placed step
	order.Status = models.StatusCancelled
	steps = order.TrackingSteps()
	assert.True(t, steps[0].Completed)
	for _, step := range steps[1:] {
		assert.False(t, step.Completed, "%s", step.Label)
	}
}

func TestMediaEvidence_VariantExclusivity(t *testing.T) {
	var media models.MediaEvidence
	assert.False(t, media.Selected())
	assert.True(t, media.Empty())

	media.SelectImages()
	media.AddImage("file:///a.jpg")
	media.AddImage("file:///b.jpg")
	assert.True(t, media.Selected())
	assert.False(t, media.Empty())
	assert.Len(t, media.Images, 2)

	// Switching to video discards the images
	media.SelectVideo()
	assert.Empty(t, media.Images)
	assert.True(t, media.Empty())
	media.SetVideo("file:///items.mp4")
	assert.False(t, media.Empty())

	// Switching back starts from an empty image set
	media.SelectImages()
	assert.Empty(t, media.Images)
	assert.Empty(t, media.VideoURI)
	assert.True(t, media.Empty())

	// Payload setters are no-ops for the inactive variant
	media.SetVideo("file:///ignored.mp4")
	assert.Empty(t, media.VideoURI)
}
