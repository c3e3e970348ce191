package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pasarin-app/backend/internal/models"
)

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		name string
		from models.OrderStatus
		to   models.OrderStatus
		want bool
	}{
		{"pending to paid", models.OrderStatusPending, models.OrderStatusPaid, true},
		{"pending to cancelled", models.OrderStatusPending, models.OrderStatusCancelled, true},
		{"pending to shipped", models.OrderStatusPending, models.OrderStatusShipped, true},
		{"paid to shipped", models.OrderStatusPaid, models.OrderStatusShipped, true},
		{"paid to cancelled", models.OrderStatusPaid, models.OrderStatusCancelled, true},
		{"shipped is terminal", models.OrderStatusShipped, models.OrderStatusPending, false},
		{"shipped to cancelled", models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{"shipped to shipped is a no-op", models.OrderStatusShipped, models.OrderStatusShipped, true},
		{"cancelled is terminal", models.OrderStatusCancelled, models.OrderStatusPending, false},
		{"cancelled to cancelled", models.OrderStatusCancelled, models.OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionOrder(tt.from, tt.to))
		})
	}
}
