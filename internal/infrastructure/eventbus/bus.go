package eventbus

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	domevent "github.com/zenshop/orderd/internal/domain/event"
	"github.com/zenshop/orderd/internal/observability"
	"github.com/zenshop/orderd/internal/observability/logctx"
)

const (
	componentBus   = "event_bus"
	handlerTimeout = 30 * time.Second
)

// Bus is an in-memory event bus for in-process fanout. It is not durable;
// events are dropped on shutdown and ordering between listeners is unspecified.
type Bus struct {
	mu          sync.RWMutex
	subs        map[string][]domevent.Handler
	queue       chan domevent.Event
	startOnce   sync.Once
	stopOnce    sync.Once
	cancel      context.CancelFunc
	concurrency int
	log         observability.Logger
	published   observability.Counter
}

func New(tel observability.Observability) *Bus {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Bus{
		subs:        make(map[string][]domevent.Handler),
		queue:       make(chan domevent.Event, 1024),
		concurrency: 8, // per-event handler fanout cap
		log:         tel.Logger().With(observability.F("component", componentBus)),
		published:   tel.Metrics().Counter(observability.MEventsPublished),
	}
}

func (b *Bus) Subscribe(eventName string, h domevent.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], h)
}

func (b *Bus) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		bg, cancel := context.WithCancel(ctx)
		b.cancel = cancel
		go b.dispatchLoop(bg)
		b.log.Info("event_bus_started")
	})
}

func (b *Bus) Stop(ctx context.Context) {
	b.stopOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		close(b.queue)
		logctx.FromOr(ctx, b.log).Info("event_bus_stopped")
	})
}

func (b *Bus) Publish(ctx context.Context, e domevent.Event) error {
	if e == nil {
		return nil
	}
	select {
	case b.queue <- e:
		b.published.Add(1, observability.L("event", e.EventName()))
		logctx.FromOr(ctx, b.log).Debug("event_enqueued",
			observability.F("event", e.EventName()),
		)
		return nil
	case <-ctx.Done():
		logctx.FromOr(ctx, b.log).Warn("event_enqueue_aborted",
			observability.F("event", e.EventName()),
			observability.F("error", ctx.Err()),
		)
		return ctx.Err()
	}
}

func (b *Bus) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-b.queue:
			if !ok {
				return
			}
			b.fanout(ctx, e)
		}
	}
}

func (b *Bus) fanout(ctx context.Context, e domevent.Event) {
	name := e.EventName()

	b.mu.RLock()
	handlers := append([]domevent.Handler(nil), b.subs[name]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug("event_dropped_no_subscriber",
			observability.F("event", name),
		)
		return
	}

	ctx = context.WithoutCancel(ctx)
	logger := b.log.With(observability.F("event", name))

	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	for _, h := range handlers {
		h := h
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("event_handler_panic",
						observability.F("panic", r),
						observability.F("stack", string(debug.Stack())),
					)
				}
				<-sem
				wg.Done()
			}()

			hctx, cancel := context.WithTimeout(ctx, handlerTimeout)
			hctx = logctx.With(hctx, logger)
			err := h(hctx, e)
			cancel()
			if err != nil {
				logger.Warn("event_handler_error",
					observability.F("error", err),
				)
			}
		}()
	}

	wg.Wait()

	logger.Debug("event_fanned_out",
		observability.F("handlers", len(handlers)),
	)
}
