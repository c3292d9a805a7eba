package order

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenshop/orderd/internal/application/notification"
	domjob "github.com/zenshop/orderd/internal/domain/job"
	"github.com/zenshop/orderd/internal/infrastructure/memory"
	"github.com/zenshop/orderd/internal/observability"
)

type fakeSink struct {
	mu   sync.Mutex
	sent []notification.Confirmation
}

func (f *fakeSink) Send(_ context.Context, c notification.Confirmation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return nil
}

func TestJobs_SendConfirmation(t *testing.T) {
	sink := &fakeSink{}
	jobs := NewJobs(sink, memory.NewAuditLog(), observability.Nop())

	conf := notification.Confirmation{Recipient: "ada@example.com", Subject: "Order #1 confirmed", OrderID: 1}
	err := jobs.handleSendConfirmation(context.Background(), domjob.Job{
		Type:    JobTypeSendConfirmation,
		Payload: ConfirmationPayload{Confirmation: conf},
	})
	require.NoError(t, err)

	require.Len(t, sink.sent, 1)
	assert.Equal(t, conf, sink.sent[0])
}

func TestJobs_InventoryAuditAppendsRecord(t *testing.T) {
	ctx := context.Background()
	audit := memory.NewAuditLog()
	jobs := NewJobs(&fakeSink{}, audit, observability.Nop())

	err := jobs.handleInventoryAudit(ctx, domjob.Job{
		Type:    JobTypeInventoryAudit,
		Payload: InventoryAuditPayload{OrderID: 3, Item: "laptop", Quantity: 2},
	})
	require.NoError(t, err)

	records, err := audit.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(3), records[0].OrderID)
	assert.Equal(t, "laptop", records[0].Item)
	assert.Equal(t, 2, records[0].Deducted)
	assert.NotEmpty(t, records[0].ID)
	assert.False(t, records[0].ProcessedAt.IsZero())
}

func TestJobs_UnexpectedPayloadFails(t *testing.T) {
	jobs := NewJobs(&fakeSink{}, memory.NewAuditLog(), observability.Nop())

	err := jobs.handleSendConfirmation(context.Background(), domjob.Job{
		Type:    JobTypeSendConfirmation,
		Payload: "not-a-confirmation",
	})
	require.Error(t, err)

	err = jobs.handleInventoryAudit(context.Background(), domjob.Job{
		Type:    JobTypeInventoryAudit,
		Payload: 42,
	})
	require.Error(t, err)
}
