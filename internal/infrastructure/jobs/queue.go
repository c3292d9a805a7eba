package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	domjob "github.com/zenshop/orderd/internal/domain/job"
	"github.com/zenshop/orderd/internal/observability"
	"github.com/zenshop/orderd/internal/observability/logctx"
)

const componentJobs = "job_queue"

// Queue runs background jobs on a worker pool. Each job is attempted a fixed
// number of times with a fixed delay between attempts; after exhausting the
// budget it is parked in the dead-letter store, never silently dropped.
type Queue struct {
	mu       sync.RWMutex
	handlers map[string]domjob.Handler
	queue    chan domjob.Job
	closed   bool

	workers  int
	attempts int
	delay    time.Duration
	dlq      domjob.DeadLetterStore

	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc

	log          observability.Logger
	processed    observability.Counter
	deadLettered observability.Counter
}

type Config struct {
	Workers    int
	Attempts   int
	RetryDelay time.Duration
	BufferSize int
}

func New(cfg Config, dlq domjob.DeadLetterStore, tel observability.Observability) *Queue {
	if tel == nil {
		tel = observability.Nop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 3
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 256
	}
	return &Queue{
		handlers:     make(map[string]domjob.Handler),
		queue:        make(chan domjob.Job, cfg.BufferSize),
		workers:      cfg.Workers,
		attempts:     cfg.Attempts,
		delay:        cfg.RetryDelay,
		dlq:          dlq,
		log:          tel.Logger().With(observability.F("component", componentJobs)),
		processed:    tel.Metrics().Counter(observability.MJobsProcessed),
		deadLettered: tel.Metrics().Counter(observability.MJobsDeadLettered),
	}
}

// Register binds a handler to a job type. Call before Start.
func (q *Queue) Register(jobType string, h domjob.Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[jobType] = h
}

func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
		q.cancel = cancel
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go q.worker(bg)
		}
		q.log.Info("job_queue_started",
			observability.F("workers", q.workers),
			observability.F("attempts", q.attempts),
		)
	})
}

// Stop closes intake and drains the remaining backlog before returning.
func (q *Queue) Stop(ctx context.Context) {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.queue)
		q.mu.Unlock()

		q.wg.Wait()
		if q.cancel != nil {
			q.cancel()
		}
		logctx.FromOr(ctx, q.log).Info("job_queue_stopped")
	})
}

func (q *Queue) Enqueue(ctx context.Context, j domjob.Job) error {
	// the read lock spans the send so Stop cannot close the channel mid-send
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return domjob.ErrQueueClosed
	}

	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.EnqueuedAt.IsZero() {
		j.EnqueuedAt = time.Now().UTC()
	}

	select {
	case q.queue <- j:
		logctx.FromOr(ctx, q.log).Debug("job_enqueued",
			observability.F("job_id", j.ID),
			observability.F("job_type", j.Type),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for j := range q.queue {
		q.process(ctx, j)
	}
}

func (q *Queue) process(ctx context.Context, j domjob.Job) {
	logger := q.log.With(
		observability.F("job_id", j.ID),
		observability.F("job_type", j.Type),
	)
	ctx = logctx.With(ctx, logger)

	q.mu.RLock()
	h, ok := q.handlers[j.Type]
	q.mu.RUnlock()
	if !ok {
		q.park(ctx, j, 0, domjob.ErrUnknownJobType)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= q.attempts; attempt++ {
		lastErr = h(ctx, j)
		if lastErr == nil {
			q.processed.Add(1,
				observability.L("job_type", j.Type),
				observability.L("outcome", "success"),
			)
			logger.Debug("job_done",
				observability.F("attempt", attempt),
			)
			return
		}

		logger.Warn("job_attempt_failed",
			observability.F("attempt", attempt),
			observability.F("error", lastErr),
		)
		if attempt < q.attempts && q.delay > 0 {
			time.Sleep(q.delay)
		}
	}

	q.park(ctx, j, q.attempts, lastErr)
}

func (q *Queue) park(ctx context.Context, j domjob.Job, attempts int, cause error) {
	q.processed.Add(1,
		observability.L("job_type", j.Type),
		observability.L("outcome", "dead_lettered"),
	)
	q.deadLettered.Add(1, observability.L("job_type", j.Type))

	entry := domjob.DeadLetter{
		ID:       uuid.NewString(),
		JobID:    j.ID,
		Type:     j.Type,
		Payload:  j.Payload,
		Attempts: attempts,
		LastErr:  cause.Error(),
		ParkedAt: time.Now().UTC(),
	}
	if err := q.dlq.Park(ctx, entry); err != nil {
		logctx.FromOr(ctx, q.log).Error("dead_letter_park_failed",
			observability.F("error", err),
		)
		return
	}
	logctx.FromOr(ctx, q.log).Error("job_dead_lettered",
		observability.F("attempts", attempts),
		observability.F("error", cause.Error()),
	)
}
