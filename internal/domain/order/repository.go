package order

import "context"

// Page is one page of orders, newest first, with pagination metadata.
type Page struct {
	Orders      []*Order
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int
}

type Repository interface {
	// Insert assigns the next identifier, persists, and fills it on the entity.
	Insert(ctx context.Context, order *Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, page, perPage int) (*Page, error)
	// UpdateStatus overwrites status and bumps the update timestamp.
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
}
