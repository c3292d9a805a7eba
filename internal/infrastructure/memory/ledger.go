package memory

import (
	"context"
	"strings"
	"sync"

	domain "github.com/zenshop/orderd/internal/domain/inventory"
)

// Ledger keeps the fixed item set in a mutex-guarded map keyed by lower-cased
// item name. No item is created or removed after construction.
type Ledger struct {
	mu    sync.Mutex
	stock map[string]int
}

// DefaultStock is the seed catalog the service starts with.
func DefaultStock() map[string]int {
	return map[string]int{
		"laptop":     50,
		"phone":      100,
		"tablet":     75,
		"monitor":    30,
		"keyboard":   200,
		"mouse":      150,
		"headphones": 80,
	}
}

func NewLedger(seed map[string]int) *Ledger {
	stock := make(map[string]int, len(seed))
	for item, qty := range seed {
		if qty < 0 {
			qty = 0
		}
		stock[normalize(item)] = qty
	}
	return &Ledger{stock: stock}
}

func (l *Ledger) CheckAvailability(ctx context.Context, item string, quantity int) bool {
	_ = ctx
	if quantity <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	available, ok := l.stock[normalize(item)]
	return ok && available >= quantity
}

func (l *Ledger) CheckAndReserve(ctx context.Context, item string, quantity int) (int, error) {
	_ = ctx
	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := normalize(item)
	available, ok := l.stock[key]
	if !ok || available < quantity {
		return available, domain.ErrOutOfStock
	}

	l.stock[key] = available - quantity
	return l.stock[key], nil
}

func (l *Ledger) Reserve(ctx context.Context, item string, quantity int) (int, int, error) {
	_ = ctx
	if quantity <= 0 {
		return 0, 0, domain.ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := normalize(item)
	available, ok := l.stock[key]
	if !ok {
		return 0, 0, domain.ErrUnknownItem
	}

	deducted := quantity
	if deducted > available {
		deducted = available
	}
	l.stock[key] = available - deducted
	return deducted, l.stock[key], nil
}

// Available reports current stock for an item. Intended for tests and inspection.
func (l *Ledger) Available(item string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stock[normalize(item)]
}

func normalize(item string) string {
	return strings.ToLower(strings.TrimSpace(item))
}
