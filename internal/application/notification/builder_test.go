package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	domain "github.com/zenshop/orderd/internal/domain/order"
)

func sampleOrder() *domain.Order {
	created := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	return &domain.Order{
		ID:            7,
		CustomerName:  "Grace Hopper",
		CustomerEmail: "grace@example.com",
		Item:          "laptop",
		Quantity:      2,
		TotalPrice:    2599.98,
		Status:        domain.StatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestBuildConfirmation(t *testing.T) {
	c := BuildConfirmation(sampleOrder())

	assert.Equal(t, "grace@example.com", c.Recipient)
	assert.Equal(t, "Order #7 confirmed", c.Subject)
	assert.Equal(t,
		"Hi Grace Hopper, thanks for your order! We received your order #7 for 2 x laptop, totaling $2599.98.",
		c.Body,
	)
	assert.Equal(t, int64(7), c.OrderID)

	// deterministic given the order
	assert.Equal(t, c, BuildConfirmation(sampleOrder()))
}

func TestBuildWebhookPayload(t *testing.T) {
	o := sampleOrder()
	p := BuildWebhookPayload(o)

	assert.Equal(t, "order.placed", p.Event)
	assert.Equal(t, int64(7), p.OrderID)
	assert.Equal(t, "Grace Hopper", p.CustomerName)
	assert.Equal(t, "grace@example.com", p.CustomerEmail)
	assert.Equal(t, "laptop", p.Item)
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, 2599.98, p.TotalPrice)
	assert.Equal(t, "pending", p.Status)
	assert.Equal(t, o.CreatedAt, p.CreatedAt)
}
