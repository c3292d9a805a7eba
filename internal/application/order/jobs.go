package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zenshop/orderd/internal/application/notification"
	dominventory "github.com/zenshop/orderd/internal/domain/inventory"
	domjob "github.com/zenshop/orderd/internal/domain/job"
	"github.com/zenshop/orderd/internal/observability"
	"github.com/zenshop/orderd/internal/observability/logctx"
)

const (
	JobTypeSendConfirmation = "order.send_confirmation"
	JobTypeInventoryAudit   = "inventory.audit_trail"
)

// ConfirmationPayload carries the prebuilt confirmation message.
type ConfirmationPayload struct {
	Confirmation notification.Confirmation
}

// InventoryAuditPayload identifies the deduction to record in the audit trail.
type InventoryAuditPayload struct {
	OrderID  int64
	Item     string
	Quantity int
}

// Registrar binds job handlers to job types.
type Registrar interface {
	Register(jobType string, h domjob.Handler)
}

// Jobs holds the background-job handlers for order side effects.
type Jobs struct {
	sink  notification.Sink
	audit dominventory.AuditLog
	log   observability.Logger
}

func NewJobs(sink notification.Sink, audit dominventory.AuditLog, tel observability.Observability) *Jobs {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Jobs{
		sink:  sink,
		audit: audit,
		log:   tel.Logger().With(observability.F("service", "order-jobs")),
	}
}

func (j *Jobs) Register(r Registrar) {
	r.Register(JobTypeSendConfirmation, j.handleSendConfirmation)
	r.Register(JobTypeInventoryAudit, j.handleInventoryAudit)
}

func (j *Jobs) handleSendConfirmation(ctx context.Context, job domjob.Job) error {
	payload, ok := job.Payload.(ConfirmationPayload)
	if !ok {
		return fmt.Errorf("jobs: unexpected payload %T for %s", job.Payload, job.Type)
	}

	if err := j.sink.Send(ctx, payload.Confirmation); err != nil {
		return fmt.Errorf("jobs: send confirmation: %w", err)
	}
	return nil
}

func (j *Jobs) handleInventoryAudit(ctx context.Context, job domjob.Job) error {
	payload, ok := job.Payload.(InventoryAuditPayload)
	if !ok {
		return fmt.Errorf("jobs: unexpected payload %T for %s", job.Payload, job.Type)
	}

	rec := dominventory.AuditRecord{
		ID:          uuid.NewString(),
		OrderID:     payload.OrderID,
		Item:        payload.Item,
		Deducted:    payload.Quantity,
		ProcessedAt: time.Now().UTC(),
	}
	if err := j.audit.Append(ctx, rec); err != nil {
		return fmt.Errorf("jobs: append audit record: %w", err)
	}

	logctx.FromOr(ctx, j.log).Debug("inventory_audit_recorded",
		observability.F("order_id", payload.OrderID),
		observability.F("item", payload.Item),
		observability.F("deducted", payload.Quantity),
	)
	return nil
}
