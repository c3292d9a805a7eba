package memory

import (
	"context"
	"sync"

	domain "github.com/zenshop/orderd/internal/domain/inventory"
)

// AuditLog is an append-only in-memory inventory audit trail.
type AuditLog struct {
	mu      sync.RWMutex
	records []domain.AuditRecord
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (a *AuditLog) Append(ctx context.Context, rec domain.AuditRecord) error {
	_ = ctx

	a.mu.Lock()
	defer a.mu.Unlock()

	a.records = append(a.records, rec)
	return nil
}

func (a *AuditLog) Records(ctx context.Context) ([]domain.AuditRecord, error) {
	_ = ctx

	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]domain.AuditRecord, len(a.records))
	copy(out, a.records)
	return out, nil
}
