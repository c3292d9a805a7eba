package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domjob "github.com/zenshop/orderd/internal/domain/job"
	"github.com/zenshop/orderd/internal/observability"
)

func newTestQueue(dlq *DeadLetterStore) *Queue {
	return New(Config{
		Workers:    2,
		Attempts:   3,
		RetryDelay: time.Millisecond,
		BufferSize: 16,
	}, dlq, observability.Nop())
}

func TestQueue_SuccessfulJobRunsOnce(t *testing.T) {
	ctx := context.Background()
	dlq := NewDeadLetterStore()
	q := newTestQueue(dlq)

	var runs atomic.Int32
	q.Register("noop", func(ctx context.Context, j domjob.Job) error {
		runs.Add(1)
		return nil
	})
	q.Start(ctx)

	require.NoError(t, q.Enqueue(ctx, domjob.Job{Type: "noop"}))
	q.Stop(ctx)

	assert.Equal(t, int32(1), runs.Load())

	parked, err := dlq.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, parked)
}

func TestQueue_FailingJobDeadLettersAfterThreeAttempts(t *testing.T) {
	ctx := context.Background()
	dlq := NewDeadLetterStore()
	q := newTestQueue(dlq)

	var attempts atomic.Int32
	q.Register("always-fails", func(ctx context.Context, j domjob.Job) error {
		attempts.Add(1)
		return errors.New("boom")
	})
	q.Start(ctx)

	require.NoError(t, q.Enqueue(ctx, domjob.Job{Type: "always-fails", Payload: "p"}))
	q.Stop(ctx)

	assert.Equal(t, int32(3), attempts.Load())

	parked, err := dlq.List(ctx)
	require.NoError(t, err)
	require.Len(t, parked, 1)
	assert.Equal(t, "always-fails", parked[0].Type)
	assert.Equal(t, 3, parked[0].Attempts)
	assert.Equal(t, "boom", parked[0].LastErr)
	assert.Equal(t, "p", parked[0].Payload)
	assert.NotEmpty(t, parked[0].ID)
}

func TestQueue_TransientFailureRecoversWithinBudget(t *testing.T) {
	ctx := context.Background()
	dlq := NewDeadLetterStore()
	q := newTestQueue(dlq)

	var attempts atomic.Int32
	q.Register("flaky", func(ctx context.Context, j domjob.Job) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	})
	q.Start(ctx)

	require.NoError(t, q.Enqueue(ctx, domjob.Job{Type: "flaky"}))
	q.Stop(ctx)

	assert.Equal(t, int32(3), attempts.Load())

	parked, err := dlq.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, parked)
}

func TestQueue_UnknownJobTypeIsParked(t *testing.T) {
	ctx := context.Background()
	dlq := NewDeadLetterStore()
	q := newTestQueue(dlq)
	q.Start(ctx)

	require.NoError(t, q.Enqueue(ctx, domjob.Job{Type: "nobody-home"}))
	q.Stop(ctx)

	parked, err := dlq.List(ctx)
	require.NoError(t, err)
	require.Len(t, parked, 1)
	assert.Equal(t, domjob.ErrUnknownJobType.Error(), parked[0].LastErr)
}

func TestQueue_EnqueueAfterStopFails(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(NewDeadLetterStore())
	q.Start(ctx)
	q.Stop(ctx)

	err := q.Enqueue(ctx, domjob.Job{Type: "late"})
	require.ErrorIs(t, err, domjob.ErrQueueClosed)
}
