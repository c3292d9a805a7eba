package job

import (
	"context"
	"errors"
	"time"
)

var (
	ErrQueueClosed    = errors.New("job: queue closed")
	ErrUnknownJobType = errors.New("job: no handler registered for type")
)

// Job is one unit of background work. Payload is a job-type-specific struct.
type Job struct {
	ID         string
	Type       string
	Payload    any
	EnqueuedAt time.Time
}

// Handler executes a job. A non-nil error counts as a failed attempt.
type Handler func(ctx context.Context, j Job) error

// Queue accepts jobs for asynchronous execution. The only contract with the
// enqueueing side is "enqueue succeeded"; completion is observable through
// logs, the audit trail, and the dead-letter store.
type Queue interface {
	Enqueue(ctx context.Context, j Job) error
}

// DeadLetter describes a job parked after exhausting its retry budget.
type DeadLetter struct {
	ID       string
	JobID    string
	Type     string
	Payload  any
	Attempts int
	LastErr  string
	ParkedAt time.Time
}

// DeadLetterStore keeps failed job descriptors for operator inspection.
type DeadLetterStore interface {
	Park(ctx context.Context, d DeadLetter) error
	List(ctx context.Context) ([]DeadLetter, error)
}
