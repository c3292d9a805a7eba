package jobs

import (
	"context"
	"sync"

	domjob "github.com/zenshop/orderd/internal/domain/job"
)

// DeadLetterStore is an in-memory parked-job store with a read-only
// inspection view for operators.
type DeadLetterStore struct {
	mu      sync.RWMutex
	entries []domjob.DeadLetter
}

func NewDeadLetterStore() *DeadLetterStore {
	return &DeadLetterStore{}
}

func (s *DeadLetterStore) Park(ctx context.Context, d domjob.DeadLetter) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, d)
	return nil
}

func (s *DeadLetterStore) List(ctx context.Context) ([]domjob.DeadLetter, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domjob.DeadLetter, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
