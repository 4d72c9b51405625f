package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []OrderStatus{
	OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
	OrderStatusDelivered, OrderStatusCancelled,
}

func TestOrderStatus_ForwardPath(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
}

func TestOrderStatus_OnlyFourEdges(t *testing.T) {
	allowed := 0
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if from.CanTransitionTo(to) {
				allowed++
			}
		}
	}
	assert.Equal(t, 4, allowed)
}

func TestOrderStatus_RejectsBackwardAndSkip(t *testing.T) {
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusProcessing))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusProcessing))
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatus("refunded").Valid())
	assert.Empty(t, OrderStatusDelivered.NextStatuses())
}
