package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

// Save stores a copy of order, assigning an id when it has none. Orders are
// written upstream, so only tests and contract fixtures seed through Save.
func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) Find(_ context.Context, q domain.Query) ([]*domain.Order, int64, error) {
	r.mu.RLock()
	matched := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if q.Matches(order) {
			matched = append(matched, order.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return q.Sort.Less(matched[i], matched[j])
	})
	page := q.Page
	if page == (pagination.Request{}) {
		page = pagination.Default()
	}
	return pagination.Window(matched, page), int64(len(matched)), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}
