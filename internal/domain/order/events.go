package order

import "time"

// OrderPlacedEvent is a domain event emitted after an order is persisted.
// Listeners observe it fire-and-forget; the orchestrator never waits on them.
type OrderPlacedEvent struct {
	OrderID    int64
	Customer   string
	Item       string
	Quantity   int
	TotalPrice float64
	OccurredAt time.Time
}

func (OrderPlacedEvent) EventName() string { return "order.placed" }

func NewOrderPlacedEvent(o *Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:    o.ID,
		Customer:   o.CustomerName,
		Item:       o.Item,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		OccurredAt: time.Now().UTC(),
	}
}
