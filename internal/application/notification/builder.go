package notification

import (
	"context"
	"fmt"
	"time"

	domain "github.com/zenshop/orderd/internal/domain/order"
)

// WebhookEventName tags every outbound webhook payload.
const WebhookEventName = "order.placed"

// Confirmation is the human-readable order confirmation message.
type Confirmation struct {
	Recipient string
	Subject   string
	Body      string
	OrderID   int64
}

// WebhookPayload is the flat projection of an order sent to the configured
// webhook endpoint.
type WebhookPayload struct {
	Event         string    `json:"event"`
	OrderID       int64     `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Item          string    `json:"item"`
	Quantity      int       `json:"quantity"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Sink delivers a confirmation message. Fire-and-forget from the caller's
// point of view; no acknowledgment contract exists.
type Sink interface {
	Send(ctx context.Context, c Confirmation) error
}

// BuildConfirmation formats a confirmation message from order fields.
// Pure and deterministic given the order.
func BuildConfirmation(o *domain.Order) Confirmation {
	return Confirmation{
		Recipient: o.CustomerEmail,
		Subject:   fmt.Sprintf("Order #%d confirmed", o.ID),
		Body: fmt.Sprintf(
			"Hi %s, thanks for your order! We received your order #%d for %d x %s, totaling $%.2f.",
			o.CustomerName, o.ID, o.Quantity, o.Item, o.TotalPrice,
		),
		OrderID: o.ID,
	}
}

// BuildWebhookPayload projects an order into the outbound webhook shape.
func BuildWebhookPayload(o *domain.Order) WebhookPayload {
	return WebhookPayload{
		Event:         WebhookEventName,
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Item:          o.Item,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}
