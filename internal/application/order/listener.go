package order

import (
	"context"

	domevent "github.com/zenshop/orderd/internal/domain/event"
	domain "github.com/zenshop/orderd/internal/domain/order"
	"github.com/zenshop/orderd/internal/observability"
	"github.com/zenshop/orderd/internal/observability/logctx"
)

// Listener reacts to order-placed events with a single structured log line.
// The orchestrator has no dependency on it; it simply subscribes to the bus.
type Listener struct {
	subscriber domevent.Subscriber
	log        observability.Logger
}

func NewListener(subscriber domevent.Subscriber, tel observability.Observability) *Listener {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Listener{
		subscriber: subscriber,
		log:        tel.Logger().With(observability.F("service", "order-listener")),
	}
}

func (l *Listener) Start() {
	if l.subscriber == nil {
		return
	}
	l.subscriber.Subscribe(domain.OrderPlacedEvent{}.EventName(), l.handleOrderPlaced)
}

func (l *Listener) handleOrderPlaced(ctx context.Context, e domevent.Event) error {
	evt, ok := e.(domain.OrderPlacedEvent)
	if !ok {
		return nil
	}

	logctx.FromOr(ctx, l.log).Info("order_placed",
		observability.F("order_id", evt.OrderID),
		observability.F("customer", evt.Customer),
		observability.F("item", evt.Item),
		observability.F("quantity", evt.Quantity),
		observability.F("total_price", evt.TotalPrice),
	)
	return nil
}
