package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("order: not found")
	ErrInvalidStatus   = errors.New("order: invalid status")
	ErrInvalidQuantity = errors.New("order: quantity must be at least one")
	ErrInvalidPrice    = errors.New("order: total price must be at least 0.01")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// ParseStatus validates a raw status value against the enum.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusConfirmed, StatusFailed:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Request bounds enforced before the orchestrator runs.
const (
	MinQuantity   = 1
	MaxQuantity   = 1000
	MinTotalPrice = 0.01
	MaxTotalPrice = 999999.99
)

type Order struct {
	ID            int64
	CustomerName  string
	CustomerEmail string
	Item          string
	Quantity      int
	TotalPrice    float64
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New builds a pending order. The repository assigns the ID on insert.
func New(customerName, customerEmail, item string, quantity int, totalPrice float64) (*Order, error) {
	if quantity < MinQuantity {
		return nil, ErrInvalidQuantity
	}
	if totalPrice < MinTotalPrice {
		return nil, ErrInvalidPrice
	}

	now := time.Now().UTC()
	return &Order{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Item:          item,
		Quantity:      quantity,
		TotalPrice:    totalPrice,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// SetStatus overwrites the status; any enum value may follow any other.
func (o *Order) SetStatus(s Status) {
	o.Status = s
	o.touch()
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}
