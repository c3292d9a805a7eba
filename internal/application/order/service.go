package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zenshop/orderd/internal/application/notification"
	domevent "github.com/zenshop/orderd/internal/domain/event"
	dominventory "github.com/zenshop/orderd/internal/domain/inventory"
	domjob "github.com/zenshop/orderd/internal/domain/job"
	domain "github.com/zenshop/orderd/internal/domain/order"
	"github.com/zenshop/orderd/internal/observability"
	"github.com/zenshop/orderd/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	orderService      = "order-service"
	useCasePlaceOrder = "order.place"
	spanPrefix        = "UC."
	publishTimeout    = 300 * time.Millisecond
)

var (
	ErrNotFound   = domain.ErrNotFound
	ErrOutOfStock = dominventory.ErrOutOfStock
	ErrRepository = errors.New("order: repository failure")
)

// WebhookCaller delivers the order-placed payload to an external endpoint.
type WebhookCaller interface {
	Deliver(ctx context.Context, p notification.WebhookPayload) error
}

// Service orchestrates order placement: availability gate, atomic stock
// reservation, persistence, then best-effort fanout to jobs, listeners, and
// the outbound webhook. Only the gate and the persist step surface errors to
// the caller.
type Service struct {
	repo           domain.Repository
	ledger         dominventory.Ledger
	queue          domjob.Queue
	publisher      domevent.Publisher
	webhook        WebhookCaller
	webhookTimeout time.Duration

	tel          observability.Observability
	log          observability.Logger
	reqCounter   observability.Counter
	durHistogram observability.Histogram
}

func NewService(
	repo domain.Repository,
	ledger dominventory.Ledger,
	queue domjob.Queue,
	publisher domevent.Publisher,
	webhook WebhookCaller,
	webhookTimeout time.Duration,
	tel observability.Observability,
) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	if webhookTimeout <= 0 {
		webhookTimeout = 3 * time.Second
	}

	return &Service{
		repo:           repo,
		ledger:         ledger,
		queue:          queue,
		publisher:      publisher,
		webhook:        webhook,
		webhookTimeout: webhookTimeout,
		tel:            tel,
		log:            tel.Logger().With(observability.F("service", orderService)),
		reqCounter:     tel.Metrics().Counter(observability.MUsecaseRequests),
		durHistogram:   tel.Metrics().Histogram(observability.MUsecaseDuration),
	}
}

type PlaceOrderInput struct {
	CustomerName  string
	CustomerEmail string
	Item          string
	Quantity      int
	TotalPrice    float64
}

// PlaceOrder runs the order-creation workflow. Structural validation of the
// input is the caller's responsibility; the service assumes it already holds.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (_ *domain.Order, err error) {
	logger := logctx.FromOr(ctx, s.log).With(observability.F("use_case", useCasePlaceOrder))

	ctx, span := s.tel.Tracer().Start(ctx, spanPrefix+"PlaceOrder",
		attribute.String("use_case", useCasePlaceOrder),
		attribute.String("order.item", input.Item),
		attribute.Int("order.quantity", input.Quantity),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	var orderID int64

	defer func() {
		lat := time.Since(start).Seconds()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, statusText)
		} else {
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()

		s.reqCounter.Add(1,
			observability.L("use_case", useCasePlaceOrder),
			observability.L("outcome", outcome),
		)
		s.durHistogram.Observe(lat,
			observability.L("use_case", useCasePlaceOrder),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if orderID != 0 {
			fields = append(fields, observability.F("order_id", orderID))
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	// Hard synchronous gate: check and reserve run in one critical section,
	// so two requests cannot both pass the check and over-draw stock.
	remaining, err := s.ledger.CheckAndReserve(ctx, input.Item, input.Quantity)
	if err != nil {
		outcome, statusText = "rejected", "OUT_OF_STOCK"
		return nil, fmt.Errorf("%w: %s", ErrOutOfStock, input.Item)
	}
	span.AddEvent("inventory.reserved",
		trace.WithAttributes(attribute.Int("inventory.remaining", remaining)),
	)

	entity, err := domain.New(input.CustomerName, input.CustomerEmail, input.Item, input.Quantity, input.TotalPrice)
	if err != nil {
		outcome, statusText = "error", "DOMAIN_CONSTRUCTION_FAILED"
		return nil, fmt.Errorf("order: construct: %w", err)
	}

	// Durability point: once the insert returns, the order is placed even if
	// every subsequent side effect fails.
	if err := s.repo.Insert(ctx, entity); err != nil {
		outcome, statusText = "error", "REPO_INSERT_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	orderID = entity.ID

	conf := notification.BuildConfirmation(entity)
	s.enqueueSideEffects(ctx, logger, entity, conf)
	s.publishPlaced(ctx, logger, entity)
	s.deliverWebhook(ctx, logger, entity)

	span.SetAttributes(attribute.Int64("order.id", entity.ID))
	span.AddEvent("order.placed")

	return entity, nil
}

// enqueueSideEffects schedules the confirmation and audit-trail jobs. Both are
// independent of the request; enqueue failures are logged and swallowed
// because the order is already persisted.
func (s *Service) enqueueSideEffects(ctx context.Context, logger observability.Logger, o *domain.Order, conf notification.Confirmation) {
	if s.queue == nil {
		return
	}

	if err := s.queue.Enqueue(ctx, domjob.Job{
		Type:    JobTypeSendConfirmation,
		Payload: ConfirmationPayload{Confirmation: conf},
	}); err != nil {
		logger.Warn("job_enqueue_failed",
			observability.F("job_type", JobTypeSendConfirmation),
			observability.F("order_id", o.ID),
			observability.F("error", err.Error()),
		)
	}

	if err := s.queue.Enqueue(ctx, domjob.Job{
		Type:    JobTypeInventoryAudit,
		Payload: InventoryAuditPayload{OrderID: o.ID, Item: o.Item, Quantity: o.Quantity},
	}); err != nil {
		logger.Warn("job_enqueue_failed",
			observability.F("job_type", JobTypeInventoryAudit),
			observability.F("order_id", o.ID),
			observability.F("error", err.Error()),
		)
	}
}

func (s *Service) publishPlaced(ctx context.Context, logger observability.Logger, o *domain.Order) {
	if s.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, domain.NewOrderPlacedEvent(o)); err != nil {
		logger.Warn("event_publish_failed",
			observability.F("event", domain.OrderPlacedEvent{}.EventName()),
			observability.F("order_id", o.ID),
			observability.F("error", err.Error()),
		)
	}
}

// deliverWebhook makes a single bounded-timeout call when an endpoint is
// configured. Any failure is logged and swallowed; it never invalidates the
// already-persisted order.
func (s *Service) deliverWebhook(ctx context.Context, logger observability.Logger, o *domain.Order) {
	if s.webhook == nil {
		return
	}

	whCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.webhookTimeout)
	defer cancel()
	if err := s.webhook.Deliver(whCtx, notification.BuildWebhookPayload(o)); err != nil {
		logger.Warn("webhook_delivery_failed",
			observability.F("order_id", o.ID),
			observability.F("error", err.Error()),
		)
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, page, perPage int) (*domain.Page, error) {
	return s.repo.List(ctx, page, perPage)
}

// UpdateStatus delegates to the store. Transitions are intentionally
// permissive: any enum value may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	logctx.FromOr(ctx, s.log).Info("order_status_updated",
		observability.F("order_id", id),
		observability.F("status", string(status)),
	)
	return updated, nil
}
