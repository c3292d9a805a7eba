package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/zenshop/orderd/internal/domain/order"
)

// OrderRepository is a mutex-guarded map store. Identifiers are a monotonic
// sequence so newest-first ordering is descending-id ordering.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	seq    int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[int64]*domain.Order),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	_ = ctx
	if order == nil {
		return fmt.Errorf("order repository: nil order")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	order.ID = r.seq
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *OrderRepository) List(ctx context.Context, page, perPage int) (*domain.Page, error) {
	_ = ctx
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	r.mu.RLock()
	ids := make([]int64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	total := len(ids)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	orders := make([]*domain.Order, 0, end-start)
	for _, id := range ids[start:end] {
		orders = append(orders, r.orders[id].Clone())
	}
	r.mu.RUnlock()

	return &domain.Page{
		Orders:      orders,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	order.SetStatus(status)
	return order.Clone(), nil
}
