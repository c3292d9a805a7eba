package inventory

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnknownItem     = errors.New("inventory: unknown item")
	ErrOutOfStock      = errors.New("inventory: out of stock")
	ErrInvalidQuantity = errors.New("inventory: quantity must be greater than zero")
)

// Ledger holds current stock per item name. Item lookup is case-insensitive
// and the set of known items is fixed at startup. Implementations must run
// check and deduction in a single critical section so concurrent callers
// cannot over-draw stock.
type Ledger interface {
	// CheckAvailability reports whether at least quantity units are available.
	// Unknown items have implicit availability zero.
	CheckAvailability(ctx context.Context, item string, quantity int) bool
	// CheckAndReserve atomically verifies availability and deducts quantity.
	// It fails with ErrOutOfStock without mutating stock when quantity exceeds
	// what is available.
	CheckAndReserve(ctx context.Context, item string, quantity int) (remaining int, err error)
	// Reserve deducts up to quantity units, floored at zero. It reports how
	// much was deducted and what remains.
	Reserve(ctx context.Context, item string, quantity int) (deducted, remaining int, err error)
}

// AuditRecord is one append-only entry of the inventory audit trail.
type AuditRecord struct {
	ID          string
	OrderID     int64
	Item        string
	Deducted    int
	ProcessedAt time.Time
}

type AuditLog interface {
	Append(ctx context.Context, rec AuditRecord) error
	Records(ctx context.Context) ([]AuditRecord, error)
}
